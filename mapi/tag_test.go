package mapi

import "testing"

func TestTagRawRoundTrip(t *testing.T) {
	tag := Tag{ID: 0x3001, Type: TypeString}
	raw := tag.Raw()
	if want := uint32(0x3001)<<16 | uint32(TypeString); raw != want {
		t.Errorf("Expecting: 0x%08X, Got: 0x%08X", want, raw)
	}
	back := tagFromRaw(raw)
	if back != tag {
		t.Errorf("Expecting: %+v, Got: %+v", tag, back)
	}
}

func TestSubstgName(t *testing.T) {
	tag := Tag{ID: 0x3001, Type: TypeString}
	want := "__substg1.0_3001001F"
	if got := tag.SubstgName(); got != want {
		t.Errorf("Expecting: %s, Got: %s", want, got)
	}
}

func TestElementSubstgName(t *testing.T) {
	tag := Tag{ID: 0x8005, Type: TypeMultipleBinary}
	want := "__substg1.0_80051102-00000002"
	if got := tag.elementSubstgName(2); got != want {
		t.Errorf("Expecting: %s, Got: %s", want, got)
	}
}

func TestTypeIsVariableAndMulti(t *testing.T) {
	cases := []struct {
		typ      Type
		variable bool
		multi    bool
	}{
		{TypeInteger32, false, false},
		{TypeString, true, false},
		{TypeBinary, true, false},
		{TypeMultipleInteger32, true, true},
		{TypeMultipleString, true, true},
	}
	for _, c := range cases {
		if got := c.typ.IsVariable(); got != c.variable {
			t.Errorf("%s.IsVariable(): Expecting: %v, Got: %v", c.typ, c.variable, got)
		}
		if got := c.typ.IsMulti(); got != c.multi {
			t.Errorf("%s.IsMulti(): Expecting: %v, Got: %v", c.typ, c.multi, got)
		}
	}
}
