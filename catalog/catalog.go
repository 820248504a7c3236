// Package catalog provides the numeric-to-symbol lookup tables MS-OXMSG
// and its referenced specs define for object types, display types,
// recipient types, attachment methods, and message status flags, plus a
// general-purpose well-known property ID lookup. Every raw value decodes
// successfully; unrecognised values render as "Unknown(0x...)" rather
// than failing, since these are catalogs of known names for values that
// are valid regardless of whether this parser has a name for them.
package catalog

import "fmt"

// ObjectType is MS-OXCPRPT's PidTagObjectType catalog (2.2.1).
type ObjectType struct {
	Value uint32
	Known bool
}

const (
	objStoreObject          uint32 = 1
	objAddressBookObject    uint32 = 2
	objFolder               uint32 = 3
	objAddressBookContainer uint32 = 4
	objMessage              uint32 = 5
	objMailUser             uint32 = 6
	objAttachment           uint32 = 7
	objDistributionList     uint32 = 8
)

var objectTypeNames = map[uint32]string{
	objStoreObject:          "StoreObject",
	objAddressBookObject:    "AddressBookObject",
	objFolder:               "Folder",
	objAddressBookContainer: "AddressBookContainer",
	objMessage:              "MessageObject",
	objMailUser:             "MailUser",
	objAttachment:           "AttachmentObject",
	objDistributionList:     "DistributionList",
}

// ParseObjectType wraps a raw PidTagObjectType value.
func ParseObjectType(raw uint32) ObjectType {
	_, known := objectTypeNames[raw]
	return ObjectType{Value: raw, Known: known}
}

func (o ObjectType) Name() string {
	return nameOrUnknown(objectTypeNames, o.Value)
}

// DisplayType is MS-OXNSPI's PidTagDisplayType catalog (2.2.3).
type DisplayType struct {
	Value uint32
	Known bool
}

const (
	dtMailUser        uint32 = 0x00000000
	dtDistList        uint32 = 0x00000001
	dtForum           uint32 = 0x00000002
	dtAgent           uint32 = 0x00000003
	dtOrganization    uint32 = 0x00000004
	dtPrivateDistList uint32 = 0x00000005
	dtRemoteMailUser  uint32 = 0x00000006
	dtContainer       uint32 = 0x00000100
	dtTemplate        uint32 = 0x00000101
	dtAddressTemplate uint32 = 0x00000102
	dtSearch          uint32 = 0x00000200
)

var displayTypeNames = map[uint32]string{
	dtMailUser:        "MailUser",
	dtDistList:        "DistList",
	dtForum:           "Forum",
	dtAgent:           "Agent",
	dtOrganization:    "Organization",
	dtPrivateDistList: "PrivateDistList",
	dtRemoteMailUser:  "RemoteMailUser",
	dtContainer:       "Container",
	dtTemplate:        "Template",
	dtAddressTemplate: "AddressTemplate",
	dtSearch:          "Search",
}

func ParseDisplayType(raw uint32) DisplayType {
	_, known := displayTypeNames[raw]
	return DisplayType{Value: raw, Known: known}
}

func (d DisplayType) Name() string {
	return nameOrUnknown(displayTypeNames, d.Value)
}

// RecipientType is MS-OXOMSG's PidTagRecipientType catalog (2.2.3.1).
type RecipientType struct {
	Value uint32
	Known bool
}

const (
	rtMessageOriginator uint32 = 0
	rtPrimaryRecipient  uint32 = 1
	rtCcRecipient       uint32 = 2
	rtBccRecipient      uint32 = 3
)

var recipientTypeNames = map[uint32]string{
	rtMessageOriginator: "MessageOriginator",
	rtPrimaryRecipient:  "PrimaryRecipient",
	rtCcRecipient:       "CcRecipient",
	rtBccRecipient:      "BccRecipient",
}

func ParseRecipientType(raw uint32) RecipientType {
	_, known := recipientTypeNames[raw]
	return RecipientType{Value: raw, Known: known}
}

func (r RecipientType) Name() string {
	return nameOrUnknown(recipientTypeNames, r.Value)
}

// AttachMethod is MS-OXCMSG's PidTagAttachMethod catalog (2.2.2.9).
type AttachMethod struct {
	Value uint32
	Known bool
}

const (
	amNone            uint32 = 0
	amByValue         uint32 = 1
	amByReference     uint32 = 2
	amByReferenceOnly uint32 = 4
	amEmbeddedMessage uint32 = 5
	amStorage         uint32 = 6
	amByWebReference  uint32 = 7
)

var attachMethodNames = map[uint32]string{
	amNone:            "None",
	amByValue:         "ByValue",
	amByReference:     "ByReference",
	amByReferenceOnly: "ByReferenceOnly",
	amEmbeddedMessage: "EmbeddedMessage",
	amStorage:         "Storage",
	amByWebReference:  "ByWebReference",
}

func ParseAttachMethod(raw uint32) AttachMethod {
	_, known := attachMethodNames[raw]
	return AttachMethod{Value: raw, Known: known}
}

func (a AttachMethod) Name() string {
	return nameOrUnknown(attachMethodNames, a.Value)
}

// MessageStatus is MS-OXCMSG's PidTagMessageStatus bit field (2.2.1.11).
// Unlike the other catalogs this is a bitmask, not an exclusive set of
// values, so Known here means "every set bit is one this parser
// recognises" rather than "this exact value has a name".
type MessageStatus struct {
	Value uint32
	Known bool
}

const (
	msHighlighted    uint32 = 0x00000001
	msTagged         uint32 = 0x00000002
	msHidden         uint32 = 0x00000004
	msDeleted        uint32 = 0x00000008
	msDraft          uint32 = 0x00000100
	msAnswered       uint32 = 0x00000200
	msInConflict     uint32 = 0x00000800
	msRemoteDownload uint32 = 0x00001000
	msRemoteDelete   uint32 = 0x00002000
)

var messageStatusBitNames = map[uint32]string{
	msHighlighted:    "Highlighted",
	msTagged:         "Tagged",
	msHidden:         "Hidden",
	msDeleted:        "Deleted",
	msDraft:          "Draft",
	msAnswered:       "Answered",
	msInConflict:     "InConflict",
	msRemoteDownload: "RemoteDownload",
	msRemoteDelete:   "RemoteDelete",
}

var allKnownStatusBits = func() uint32 {
	var all uint32
	for bit := range messageStatusBitNames {
		all |= bit
	}
	return all
}()

func ParseMessageStatus(raw uint32) MessageStatus {
	return MessageStatus{Value: raw, Known: raw&^allKnownStatusBits == 0}
}

// Name renders the set bits as a "|"-joined list, in ascending bit order,
// plus a trailing Unknown(0x...) term for any bits this parser has no
// name for.
func (m MessageStatus) Name() string {
	if m.Value == 0 {
		return "(none)"
	}
	s := ""
	for _, bit := range []uint32{msHighlighted, msTagged, msHidden, msDeleted, msDraft, msAnswered, msInConflict, msRemoteDownload, msRemoteDelete} {
		if m.Value&bit != 0 {
			if s != "" {
				s += "|"
			}
			s += messageStatusBitNames[bit]
		}
	}
	if rest := m.Value &^ allKnownStatusBits; rest != 0 {
		if s != "" {
			s += "|"
		}
		s += fmt.Sprintf("Unknown(0x%X)", rest)
	}
	return s
}

func nameOrUnknown(names map[uint32]string, v uint32) string {
	if n, ok := names[v]; ok {
		return n
	}
	return fmt.Sprintf("Unknown(0x%X)", v)
}
