// Package tsdoc parses TSDoc-style documentation comments into ir.Comment.
//
// The parser is tolerant: it never fails. Content it cannot attribute to
// a well-formed tag is kept in Comment.Remarks and reported as an Issue,
// and Comment.Raw always holds the original text.
//
// Recognized block tags:
//
//	@remarks                   -> Remarks
//	@param, @typeParam         -> Params, TypeParams ("name - description")
//	@template                  -> TypeParams
//	@returns, @return          -> Returns
//	@defaultValue, @default    -> DefaultValue
//	@example                   -> Examples
//	@see                       -> SeeBlocks
//	@note                      -> Notes
//
// Modifier tags (@beta, @internal, ...) set the flags in ir.Modifiers.
// Every other block tag is preserved as an ir.CustomBlock.
package tsdoc
