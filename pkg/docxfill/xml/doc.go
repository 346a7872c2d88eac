// Package xml provides the markup event stream consumed by the docxfill
// template engine.
//
// Unlike encoding/xml's Encoder, which rewrites namespace prefixes and turns
// self-closing tags into start/end pairs, the Reader in this package keeps the
// exact input bytes of every event. Markup that the engine does not touch is
// therefore written back byte-for-byte, which keeps WordprocessingML parts
// intact (namespace declarations, mc:Ignorable prefixes, w14 attributes, etc).
//
// # Events
//
// The Reader produces four kinds of events:
//
//   - KindText: character data (and CDATA sections), with the decoded text
//   - KindStart: an element start tag
//   - KindEnd: an element end tag (zero-length for self-closing elements)
//   - KindOther: comments, processing instructions and directives
//
// Each event carries Raw, the bytes it was read from. Events synthesized by the
// engine have nil Raw and are serialized from their decoded form.
//
// # Well-formedness
//
// encoding/xml's RawToken does not check that end tags match start tags. The
// Reader keeps its own element stack and reports mismatched, unexpected and
// unclosed elements as *Error values, alongside the decoder's syntax and
// encoding errors.
//
// # Transparency
//
// Transparent reports whether a run of markup events closes some elements and
// reopens elements with the same names. Word splits a single piece of text
// over several runs this way ("</w:t></w:r><w:r><w:t>"), and the engine uses
// this check to decide when such markup can be dropped or repeated without
// unbalancing the document.
package xml
