// Package views projects a decoded mapi.PropertyStream into the
// domain-shaped Message, Recipient, and Attachment structs a caller
// actually wants, translating MS-OXCMSG's borrowed-view-plus-to_owned
// pattern into plain owned Go structs: Go's garbage collector makes the
// borrowed/owned split the original draws unnecessary, so there is only
// one shape here, not two.
package views

import (
	"time"

	"github.com/corvidae/oxmsg/catalog"
	"github.com/corvidae/oxmsg/mapi"
)

// Message projects the well-known top-level properties of a .msg file.
type Message struct {
	Subject                 string
	ClientSubmitTime        *time.Time
	SentRepresentingName     string
	SenderName               string
	SenderSmtpAddress        string
	DeliveryTime             *time.Time
	Flags                    uint32
	Status                   catalog.MessageStatus
	Size                     uint32
	Body                     string
	TransportMessageHeaders  string
	DisplayTo                string
}

// NewMessage projects ps, the top-level message's property stream, into
// a Message. Properties absent from ps are left at their zero value;
// NewMessage never fails, since every field it reads is optional in the
// underlying format.
func NewMessage(ps *mapi.PropertyStream) Message {
	m := Message{}
	m.Subject = str(ps, catalog.PidSubject)
	m.ClientSubmitTime = tm(ps, catalog.PidClientSubmitTime)
	m.SentRepresentingName = str(ps, catalog.PidSentRepresentingName)
	m.SenderName = str(ps, catalog.PidSenderName)
	m.SenderSmtpAddress = str(ps, catalog.PidSenderSmtpAddress)
	m.DeliveryTime = tm(ps, catalog.PidMessageDeliveryTime)
	m.Flags = u32(ps, catalog.PidMessageFlags)
	m.Status = catalog.ParseMessageStatus(u32(ps, catalog.PidMessageStatus))
	m.Size = u32(ps, catalog.PidMessageSize)
	m.Body = str(ps, catalog.PidBody)
	m.TransportMessageHeaders = str(ps, catalog.PidTransportHeaders)
	m.DisplayTo = str(ps, catalog.PidDisplayTo)
	return m
}

// Recipient projects the well-known properties of a __recip_version1.0_*
// storage's property stream.
type Recipient struct {
	Type        catalog.RecipientType
	DisplayName string
	ObjectType  catalog.ObjectType
	AddressType string
	Email       string
	DisplayType catalog.DisplayType
}

func NewRecipient(ps *mapi.PropertyStream) Recipient {
	return Recipient{
		Type:        catalog.ParseRecipientType(u32(ps, catalog.PidRecipientType)),
		DisplayName: str(ps, catalog.PidDisplayName),
		ObjectType:  catalog.ParseObjectType(u32(ps, catalog.PidObjectType)),
		AddressType: str(ps, catalog.PidAddressType),
		Email:       str(ps, catalog.PidEmailAddress),
		DisplayType: catalog.ParseDisplayType(u32(ps, catalog.PidDisplayType)),
	}
}

// Attachment projects the well-known properties of a __attach_version1.0_*
// storage's property stream.
type Attachment struct {
	DisplayName  string
	Method       catalog.AttachMethod
	Size         uint32
	FileName     string
	LongFileName string
	Data         []byte
	MimeTag      string
	Extension    string
}

func NewAttachment(ps *mapi.PropertyStream) Attachment {
	return Attachment{
		DisplayName:  str(ps, catalog.PidDisplayName),
		Method:       catalog.ParseAttachMethod(u32(ps, catalog.PidAttachMethod)),
		Size:         u32(ps, catalog.PidAttachSize),
		FileName:     str(ps, catalog.PidAttachFilename),
		LongFileName: str(ps, catalog.PidAttachLongFilename),
		Data:         bytesOf(ps, catalog.PidAttachDataBinary),
		MimeTag:      str(ps, catalog.PidAttachMimeTag),
		Extension:    str(ps, catalog.PidAttachExtension),
	}
}

func str(ps *mapi.PropertyStream, id uint16) string {
	e, ok := ps.Get(id)
	if !ok {
		return ""
	}
	return e.Value.Str
}

func u32(ps *mapi.PropertyStream, id uint16) uint32 {
	e, ok := ps.Get(id)
	if !ok {
		return 0
	}
	return uint32(e.Value.Int32)
}

func tm(ps *mapi.PropertyStream, id uint16) *time.Time {
	e, ok := ps.Get(id)
	if !ok {
		return nil
	}
	return e.Value.Time
}

func bytesOf(ps *mapi.PropertyStream, id uint16) []byte {
	e, ok := ps.Get(id)
	if !ok {
		return nil
	}
	return e.Value.Bytes
}
