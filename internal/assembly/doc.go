// Package assembly builds multi-student tables out of independently rendered
// template documents.
//
// Every student gets a fresh render of a template. The rendered tables are
// then copied into a single merged document using one of three layouts:
//
//   - Merged rows: every row of the rendered table becomes one row of the
//     merged table, with the table grid, table properties, row properties and
//     cell contents deep-copied. A background picture is anchored to the first
//     cell of each copied row.
//   - Grid placement: every rendered table is flattened into one cell of a
//     two-column grid, copying paragraph text with run formatting and the
//     first nested table.
//   - Appended rows: extra rows of the first student's own table, paired
//     paragraph by paragraph with the template cell formatting.
//
// Rows copied by the merged layout keep w:cantSplit so a certificate is never
// broken across pages, and nested tables get a fixed layout so Word does not
// reflow them. Text markers in copied runs are replaced by the education logo.
package assembly
