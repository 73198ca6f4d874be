// Package docx reads, edits and writes WordprocessingML (.docx) packages.
//
// A Package keeps every part of the source ZIP container and parses the parts
// it edits: the main document, its relationships, the content types and the
// styles. Table, Row, Cell, Paragraph and Run are thin views over elements of
// the main document tree; edits through them mutate the tree in place and are
// serialised by WriteTo.
//
// Element children are inserted in schema order so Word opens edited files
// without a repair prompt.
package docx
