// Package bibtex reads and writes brace-delimited bibliographic records.
//
// Parsing runs in two independent passes. The Parser isolates each record by
// brace depth and captures its body verbatim; the KeyExtractor then reads the
// first comma-separated field of that body as the citation key. Nested
// content (abstracts, notes) may hold commas and braces of its own, so only
// the first field is ever tokenized.
//
// Grammar
//
//	File       ::= (Space | Comment | Record)*
//	Comment    ::= '%' [^\n]* '\n'
//	Record     ::= '@' Space? Type Space? Body
//	Type       ::= [A-Za-z0-9]+
//	Body       ::= '{' (Body | [^{}])* '}'       -- captured verbatim
//	Key        ::= [^\s,={}"#%'()]+              -- first field of Body
//
// The directives @comment, @preamble and @string are matched by the same
// grammar and dropped.
package bibtex
