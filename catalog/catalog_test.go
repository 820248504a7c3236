package catalog

import "testing"

func TestEnumClosureObjectType(t *testing.T) {
	if n := ParseObjectType(objMessage).Name(); n != "MessageObject" {
		t.Errorf("Expecting: MessageObject, Got: %s", n)
	}
	unknown := ParseObjectType(0xFF)
	if unknown.Known {
		t.Errorf("Expecting: Known=false, Got: true")
	}
	if n := unknown.Name(); n != "Unknown(0xFF)" {
		t.Errorf("Expecting: Unknown(0xFF), Got: %s", n)
	}
}

func TestEnumClosureRecipientType(t *testing.T) {
	for raw := uint32(0); raw < 4; raw++ {
		rt := ParseRecipientType(raw)
		if !rt.Known {
			t.Errorf("Expecting raw %d to be known", raw)
		}
	}
	if ParseRecipientType(99).Known {
		t.Errorf("Expecting: Known=false, Got: true")
	}
}

func TestMessageStatusBitmask(t *testing.T) {
	ms := ParseMessageStatus(msHighlighted | msDraft)
	if !ms.Known {
		t.Errorf("Expecting: Known=true, Got: false")
	}
	if got := ms.Name(); got != "Highlighted|Draft" {
		t.Errorf("Expecting: Highlighted|Draft, Got: %s", got)
	}
	withUnknown := ParseMessageStatus(msHighlighted | 0x80000000)
	if withUnknown.Known {
		t.Errorf("Expecting: Known=false, Got: true")
	}
}

func TestPropertyIDClosure(t *testing.T) {
	if !ParsePropertyID(PidSubject).Known {
		t.Errorf("Expecting PidSubject to be known")
	}
	u := ParsePropertyID(0xABCD)
	if u.Known {
		t.Errorf("Expecting: Known=false, Got: true")
	}
	if got := u.Name(); got != "Unknown(0xABCD)" {
		t.Errorf("Expecting: Unknown(0xABCD), Got: %s", got)
	}
}
