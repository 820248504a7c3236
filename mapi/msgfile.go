package mapi

import (
	"fmt"

	"github.com/corvidae/oxmsg/cfb"
	"github.com/corvidae/oxmsg/errs"
)

const (
	recipientPrefix  = "__recip_version1.0_#"
	attachmentPrefix = "__attach_version1.0_#"
)

// MsgFile is the fully assembled contents of a .msg file: the top-level
// message property stream plus every recipient and attachment storage's
// own property stream, in index order.
type MsgFile struct {
	Message     *PropertyStream
	Recipients  []*PropertyStream
	Attachments []*PropertyStream
}

// Assemble walks a parsed cfb.CompoundFile and decodes its MAPI content:
// the root storage's own property stream, then a dense, zero-based
// enumeration of "__recip_version1.0_#NNNNNNNN" and
// "__attach_version1.0_#NNNNNNNN" child storages. Enumeration stops at
// the first missing index regardless of what the message header's
// RecipientCount/AttachmentCount claim (MS-OXMSG producers are expected
// to agree, but this parser trusts the storages that actually exist).
func Assemble(c *cfb.CompoundFile) (*MsgFile, error) {
	root := c.Root()

	propsEntry, ok := root.Children[PropertyStreamName]
	if !ok {
		return nil, errs.New(errs.MissingValueStream, "root storage has no "+PropertyStreamName)
	}
	message, err := ParsePropertyStream(propsEntry.Data, TopLevelHeaderSize, root)
	if err != nil {
		return nil, err
	}

	msg := &MsgFile{Message: message}

	for i := uint32(0); ; i++ {
		name := fmt.Sprintf("%s%08X", recipientPrefix, i)
		storage, ok := root.Children[name]
		if !ok {
			break
		}
		ps, ok, err := propertyStreamOf(storage, RecipientOrAttachmentHeaderSize)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		msg.Recipients = append(msg.Recipients, ps)
	}

	for i := uint32(0); ; i++ {
		name := fmt.Sprintf("%s%08X", attachmentPrefix, i)
		storage, ok := root.Children[name]
		if !ok {
			break
		}
		ps, ok, err := propertyStreamOf(storage, RecipientOrAttachmentHeaderSize)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		msg.Attachments = append(msg.Attachments, ps)
	}

	return msg, nil
}

// propertyStreamOf decodes storage's own property stream. A storage that
// exists but has no __properties_version1.0 child is reported via
// ok=false rather than an error: MS-OXMSG's own enumeration (and
// original_source/src/oxmsg.rs's from_cfb) stops at the first such gap
// just as it would for a missing storage, it does not treat it as
// malformed.
func propertyStreamOf(storage *cfb.DirectoryEntry, headerSize int) (*PropertyStream, bool, error) {
	propsEntry, ok := storage.Children[PropertyStreamName]
	if !ok {
		return nil, false, nil
	}
	ps, err := ParsePropertyStream(propsEntry.Data, headerSize, storage)
	if err != nil {
		return nil, false, err
	}
	return ps, true, nil
}
