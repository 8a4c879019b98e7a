package ast

import "strings"

// SymbolValue returns the name carried by a symbol literal (:foo, :"foo", foo:).
// Interpolated symbols are not literal and report false.
func SymbolValue(n Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind() {
	case KindSymbol:
		return strings.TrimPrefix(n.Text(), ":"), true
	case KindHashKeySymbol:
		return n.Text(), true
	case KindDelimitedSymbol:
		return joinContent(n)
	default:
		return "", false
	}
}

// StringValue returns the contents of a string literal without interpolation.
func StringValue(n Node) (string, bool) {
	if n == nil || n.Kind() != KindString {
		return "", false
	}
	return joinContent(n)
}

// LiteralName returns the value of a symbol or string literal.
func LiteralName(n Node) (string, bool) {
	if name, ok := SymbolValue(n); ok {
		return name, true
	}
	return StringValue(n)
}

// joinContent concatenates string_content children, refusing interpolation.
func joinContent(n Node) (string, bool) {
	var sb strings.Builder
	for _, child := range n.NamedChildren() {
		switch child.Kind() {
		case KindStringContent:
			sb.WriteString(child.Text())
		case KindInterpolation:
			return "", false
		default:
			// escape_sequence and friends: keep the raw text
			sb.WriteString(child.Text())
		}
	}
	return sb.String(), true
}

// PairKey returns the literal key of a hash pair (if: x, :if => x, "if" => x).
func PairKey(pair Node) (string, bool) {
	if pair == nil || pair.Kind() != KindPair {
		return "", false
	}
	return LiteralName(pair.Field("key"))
}

// ConstantPath decomposes a constant or scope resolution into its segments.
// rooted reports a leading "::". ok is false when any segment is not a literal
// constant (e.g. foo::Bar or self.class::Baz).
func ConstantPath(n Node) (segments []string, rooted bool, ok bool) {
	if n == nil {
		return nil, false, false
	}
	switch n.Kind() {
	case KindConstant:
		return []string{n.Text()}, false, true
	case KindScopeResolution:
		name := n.Field("name")
		if name == nil || name.Kind() != KindConstant {
			return nil, false, false
		}
		scope := n.Field("scope")
		if scope == nil {
			return []string{name.Text()}, true, true
		}
		prefix, root, valid := ConstantPath(scope)
		if !valid {
			return nil, false, false
		}
		return append(prefix, name.Text()), root, true
	default:
		return nil, false, false
	}
}
