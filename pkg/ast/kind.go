package ast

// Kind classifies syntax nodes the engine gives meaning to.
// Node types outside the table map to KindOther and are traversed generically;
// parse errors map to KindError.
type Kind uint8

const (
	KindOther Kind = iota
	KindError
	KindProgram
	KindComment
	KindClass
	KindModule
	KindSingletonClass
	KindSuperclass
	KindBodyStatement
	KindMethod
	KindSingletonMethod
	KindSetter
	KindOperator
	KindParameters
	KindOptionalParameter
	KindKeywordParameter
	KindNamedParameter
	KindCall
	KindArgumentList
	KindBlock
	KindBlockArgument
	KindIdentifier
	KindConstant
	KindScopeResolution
	KindSelf
	KindSymbol
	KindDelimitedSymbol
	KindHashKeySymbol
	KindString
	KindStringContent
	KindInterpolation
	KindPair
	KindHash
	KindAssignment
	KindOperatorAssignment
	KindLeftAssignmentList
	KindElementReference
	KindBinary
	KindUnary
	KindAlias
	KindArray
)

var kindNames = [...]string{
	KindOther:              "other",
	KindError:              "error",
	KindProgram:            "program",
	KindComment:            "comment",
	KindClass:              "class",
	KindModule:             "module",
	KindSingletonClass:     "singleton_class",
	KindSuperclass:         "superclass",
	KindBodyStatement:      "body_statement",
	KindMethod:             "method",
	KindSingletonMethod:    "singleton_method",
	KindSetter:             "setter",
	KindOperator:           "operator",
	KindParameters:         "parameters",
	KindOptionalParameter:  "optional_parameter",
	KindKeywordParameter:   "keyword_parameter",
	KindNamedParameter:     "named_parameter",
	KindCall:               "call",
	KindArgumentList:       "argument_list",
	KindBlock:              "block",
	KindBlockArgument:      "block_argument",
	KindIdentifier:         "identifier",
	KindConstant:           "constant",
	KindScopeResolution:    "scope_resolution",
	KindSelf:               "self",
	KindSymbol:             "symbol",
	KindDelimitedSymbol:    "delimited_symbol",
	KindHashKeySymbol:      "hash_key_symbol",
	KindString:             "string",
	KindStringContent:      "string_content",
	KindInterpolation:      "interpolation",
	KindPair:               "pair",
	KindHash:               "hash",
	KindAssignment:         "assignment",
	KindOperatorAssignment: "operator_assignment",
	KindLeftAssignmentList: "left_assignment_list",
	KindElementReference:   "element_reference",
	KindBinary:             "binary",
	KindUnary:              "unary",
	KindAlias:              "alias",
	KindArray:              "array",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

// kindByType maps tree-sitter-ruby node types to kinds. Several grammar
// revisions are covered (method_call and symbol predate call and simple_symbol).
var kindByType = map[string]Kind{
	"ERROR":                KindError,
	"program":              KindProgram,
	"comment":              KindComment,
	"class":                KindClass,
	"module":               KindModule,
	"singleton_class":      KindSingletonClass,
	"superclass":           KindSuperclass,
	"body_statement":       KindBodyStatement,
	"method":               KindMethod,
	"singleton_method":     KindSingletonMethod,
	"setter":               KindSetter,
	"operator":             KindOperator,
	"method_parameters":    KindParameters,
	"block_parameters":     KindParameters,
	"lambda_parameters":    KindParameters,
	"optional_parameter":   KindOptionalParameter,
	"keyword_parameter":    KindKeywordParameter,
	"splat_parameter":      KindNamedParameter,
	"hash_splat_parameter": KindNamedParameter,
	"block_parameter":      KindNamedParameter,
	"call":                 KindCall,
	"method_call":          KindCall,
	"argument_list":        KindArgumentList,
	"block":                KindBlock,
	"do_block":             KindBlock,
	"block_argument":       KindBlockArgument,
	"identifier":           KindIdentifier,
	"constant":             KindConstant,
	"scope_resolution":     KindScopeResolution,
	"self":                 KindSelf,
	"simple_symbol":        KindSymbol,
	"symbol":               KindSymbol,
	"bare_symbol":          KindSymbol,
	"delimited_symbol":     KindDelimitedSymbol,
	"hash_key_symbol":      KindHashKeySymbol,
	"string":               KindString,
	"bare_string":          KindString,
	"string_content":       KindStringContent,
	"interpolation":        KindInterpolation,
	"pair":                 KindPair,
	"hash":                 KindHash,
	"assignment":           KindAssignment,
	"operator_assignment":  KindOperatorAssignment,
	"left_assignment_list": KindLeftAssignmentList,
	"element_reference":    KindElementReference,
	"binary":               KindBinary,
	"unary":                KindUnary,
	"alias":                KindAlias,
	"array":                KindArray,
	"string_array":         KindArray,
	"symbol_array":         KindArray,
}

// KindOf maps a grammar node type to its Kind.
func KindOf(nodeType string) Kind {
	if k, ok := kindByType[nodeType]; ok {
		return k
	}
	return KindOther
}
