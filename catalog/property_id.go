package catalog

import "fmt"

// PropertyID wraps a raw MAPI property ID (the high 16 bits of a property
// tag) with its well-known name, when this parser has one. Only the
// subset of MS-OXCMSG/MS-OXOMSG property IDs the views package actually
// projects is named here; everything else still decodes, just without a
// friendly name.
type PropertyID struct {
	Value uint16
	Known bool
}

// Well-known property IDs used by the views package. Names follow
// MS-OXCMSG/MS-OXOMSG/MS-OXPROPS. A property's PT_STRING (Unicode) and
// PT_STRING8 forms share one ID - MS-OXMSG property IDs are
// type-independent, the ID alone is what's catalogued here.
const (
	PidSubject              uint16 = 0x0037
	PidClientSubmitTime     uint16 = 0x0039
	PidDisplayTo            uint16 = 0x0E04
	PidMessageDeliveryTime  uint16 = 0x0E06
	PidMessageFlags         uint16 = 0x0E07
	PidMessageSize          uint16 = 0x0E08
	PidMessageStatus        uint16 = 0x0E17
	PidSentRepresentingName uint16 = 0x0042
	PidSenderName           uint16 = 0x0C1A
	PidSenderSmtpAddress    uint16 = 0x5D01
	PidBody                 uint16 = 0x1000
	PidTransportHeaders     uint16 = 0x007D

	PidRecipientType  uint16 = 0x0C15
	PidDisplayName    uint16 = 0x3001
	PidObjectType     uint16 = 0x0FFE
	PidAddressType    uint16 = 0x3002
	PidEmailAddress   uint16 = 0x3003
	PidDisplayType    uint16 = 0x3900

	PidAttachDataBinary   uint16 = 0x3701
	PidAttachMethod       uint16 = 0x3705
	PidAttachSize         uint16 = 0x0E20
	PidAttachFilename     uint16 = 0x3704
	PidAttachLongFilename uint16 = 0x3707
	PidAttachMimeTag      uint16 = 0x370E
	PidAttachExtension    uint16 = 0x3703
)

var propertyIDNames = map[uint16]string{
	PidSubject:              "Subject",
	PidClientSubmitTime:     "ClientSubmitTime",
	PidDisplayTo:            "DisplayTo",
	PidMessageDeliveryTime:  "MessageDeliveryTime",
	PidMessageFlags:         "MessageFlags",
	PidMessageSize:          "MessageSize",
	PidMessageStatus:        "MessageStatus",
	PidSentRepresentingName: "SentRepresentingName",
	PidSenderName:           "SenderName",
	PidSenderSmtpAddress:    "SenderSmtpAddress",
	PidBody:                 "Body",
	PidTransportHeaders:     "TransportMessageHeaders",

	PidRecipientType: "RecipientType",
	PidDisplayName:   "DisplayName",
	PidObjectType:    "ObjectType",
	PidAddressType:   "AddressType",
	PidEmailAddress:  "EmailAddress",
	PidDisplayType:   "DisplayType",

	PidAttachDataBinary:   "AttachDataBinary",
	PidAttachMethod:       "AttachMethod",
	PidAttachSize:         "AttachSize",
	PidAttachFilename:     "AttachFilename",
	PidAttachLongFilename: "AttachLongFilename",
	PidAttachMimeTag:      "AttachMimeTag",
	PidAttachExtension:    "AttachExtension",
}

func ParsePropertyID(raw uint16) PropertyID {
	_, known := propertyIDNames[raw]
	return PropertyID{Value: raw, Known: known}
}

func (p PropertyID) Name() string {
	if n, ok := propertyIDNames[p.Value]; ok {
		return n
	}
	return fmt.Sprintf("Unknown(0x%04X)", p.Value)
}
