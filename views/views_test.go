package views

import (
	"testing"

	"github.com/corvidae/oxmsg/catalog"
	"github.com/corvidae/oxmsg/mapi"
)

func propStream(entries map[uint16]mapi.Entry) *mapi.PropertyStream {
	return &mapi.PropertyStream{Properties: entries}
}

func TestNewMessageProjection(t *testing.T) {
	ps := propStream(map[uint16]mapi.Entry{
		catalog.PidSubject: {Tag: mapi.Tag{ID: catalog.PidSubject, Type: mapi.TypeString}, Value: mapi.Value{Str: "Hello"}},
		catalog.PidMessageSize: {Tag: mapi.Tag{ID: catalog.PidMessageSize, Type: mapi.TypeInteger32}, Value: mapi.Value{Int32: 1024}},
	})
	m := NewMessage(ps)
	if m.Subject != "Hello" {
		t.Errorf("Expecting: Hello, Got: %s", m.Subject)
	}
	if m.Size != 1024 {
		t.Errorf("Expecting: 1024, Got: %d", m.Size)
	}
	if m.Body != "" {
		t.Errorf("Expecting: (empty), Got: %s", m.Body)
	}
}

func TestNewRecipientProjection(t *testing.T) {
	ps := propStream(map[uint16]mapi.Entry{
		catalog.PidRecipientType: {Tag: mapi.Tag{ID: catalog.PidRecipientType, Type: mapi.TypeInteger32}, Value: mapi.Value{Int32: 1}},
		catalog.PidDisplayName:   {Tag: mapi.Tag{ID: catalog.PidDisplayName, Type: mapi.TypeString}, Value: mapi.Value{Str: "Jane Doe"}},
	})
	r := NewRecipient(ps)
	if r.Type.Name() != "PrimaryRecipient" {
		t.Errorf("Expecting: PrimaryRecipient, Got: %s", r.Type.Name())
	}
	if r.DisplayName != "Jane Doe" {
		t.Errorf("Expecting: Jane Doe, Got: %s", r.DisplayName)
	}
}
