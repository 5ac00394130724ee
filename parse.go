package symcalc

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Parsing
// ============================================================

// ParseError reports malformed input. Pos is a 0-based byte offset into
// the original string.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of expression"
	case tokNum:
		return "number " + t.text
	case tokIdent:
		return "name " + t.text
	}
	return fmt.Sprintf("%q", t.text)
}

var constNames = map[string]Expr{
	"pi": Pi, "E": E, "e": E,
	"oo": Infinity, "inf": Infinity, "infinity": Infinity,
}

var funcAliases = map[string]string{
	"ln": "log", "arcsin": "asin", "arccos": "acos", "arctan": "atan",
	"Abs": "abs", "ceiling": "ceil", "sqrt": "sqrt",
}

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithSymbols declares multi-letter names that must be kept whole instead
// of being split into a product of single letters. A declared name also
// shadows a constant of the same spelling, so "e" can be a variable.
func WithSymbols(names ...string) ParseOption {
	return func(p *parser) {
		for _, n := range names {
			p.symbols[n] = true
		}
	}
}

// Parse converts infix text into a canonical expression. It accepts ^ and
// ** for powers, implicit multiplication (2x, x(x+1), 2sin(x)), function
// application without parentheses (sin x), sin^2(x) and log(x, b).
func Parse(input string, opts ...ParseOption) (Expr, error) {
	p := &parser{input: input, symbols: map[string]bool{}}
	for _, o := range opts {
		o(p)
	}
	if strings.TrimSpace(input) == "" {
		return nil, &ParseError{Input: input, Pos: -1, Msg: "empty expression"}
	}
	toks, err := p.lex()
	if err != nil {
		return nil, err
	}
	p.toks = toks
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, p.errAt(t, "unmatched ')'")
		}
		return nil, p.errAt(t, "unexpected "+t.describe())
	}
	return e, nil
}

// ParseSymbol validates a variable name.
func ParseSymbol(name string) (*Sym, error) {
	if name == "" {
		return nil, &ParseError{Input: name, Pos: -1, Msg: "empty variable name"}
	}
	for i, r := range name {
		ok := r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))
		if !ok || r > unicode.MaxASCII {
			return nil, &ParseError{Input: name, Pos: i, Msg: fmt.Sprintf("invalid character %q in variable name", r)}
		}
	}
	if knownFuncs[name] || funcAliases[name] != "" {
		return nil, &ParseError{Input: name, Pos: -1, Msg: fmt.Sprintf("%q is a function name", name)}
	}
	if _, ok := constNames[name]; ok && name != "e" {
		return nil, &ParseError{Input: name, Pos: -1, Msg: fmt.Sprintf("%q is a constant", name)}
	}
	return S(name), nil
}

type parser struct {
	input   string
	symbols map[string]bool
	toks    []token
	pos     int
}

func (p *parser) errAt(t token, msg string) error {
	return &ParseError{Input: p.input, Pos: t.pos, Msg: msg}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// ------------------------------------------------------------
// Lexer
// ------------------------------------------------------------

func (p *parser) lex() ([]token, error) {
	var toks []token
	src := p.input
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(r) || (r == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			start := i
			seenDot := false
			for i < len(src) {
				if src[i] == '.' && !seenDot && i+1 < len(src) && isDigit(rune(src[i+1])) {
					seenDot = true
				} else if !isDigit(rune(src[i])) {
					break
				}
				i++
			}
			toks = append(toks, token{kind: tokNum, text: src[start:i], pos: start})
		case r == '_' || (r <= unicode.MaxASCII && unicode.IsLetter(r)):
			start := i
			for i < len(src) && (src[i] == '_' || isDigit(rune(src[i])) || unicode.IsLetter(rune(src[i]))) && src[i] <= unicode.MaxASCII {
				i++
			}
			words := p.splitWord(src[start:i])
			if len(words) > 1 && callFollows(src[i:]) {
				if _, isFunc := funcName(words[len(words)-1].text); !isFunc {
					return nil, &ParseError{Input: src, Pos: start, Msg: fmt.Sprintf("unknown function %q", src[start:i])}
				}
			}
			for _, w := range words {
				toks = append(toks, token{kind: tokIdent, text: w.text, pos: start + w.offset})
			}
		case r == '*' && i+1 < len(src) && src[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i += size
		case r == '(' || r == '[':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i += size
		case r == ')' || r == ']':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i += size
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i += size
		case r == 'π':
			toks = append(toks, token{kind: tokIdent, text: "pi", pos: i})
			i += size
		case r == '−':
			toks = append(toks, token{kind: tokOp, text: "-", pos: i})
			i += size
		case r == '×' || r == '·':
			toks = append(toks, token{kind: tokOp, text: "*", pos: i})
			i += size
		case r == '÷':
			toks = append(toks, token{kind: tokOp, text: "/", pos: i})
			i += size
		default:
			return nil, &ParseError{Input: src, Pos: i, Msg: fmt.Sprintf("invalid character %q", r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// callFollows reports whether rest opens an argument list.
func callFollows(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	return strings.HasPrefix(rest, "(")
}

type word struct {
	text   string
	offset int
}

// splitWord breaks an unknown multi-letter name into known words and single
// letters, so "xy" reads as x*y and "sinx" as sin(x). Names containing
// digits or underscores are kept whole.
func (p *parser) splitWord(name string) []word {
	if p.isKnownWord(name) || len(name) == 1 || strings.ContainsAny(name, "_0123456789") {
		return []word{{text: name}}
	}
	vocab := p.vocabulary()
	var out []word
	for off := 0; off < len(name); {
		match := name[off : off+1]
		for _, w := range vocab {
			if len(w) > len(match) && strings.HasPrefix(name[off:], w) {
				match = w
				break
			}
		}
		out = append(out, word{text: match, offset: off})
		off += len(match)
	}
	return out
}

func (p *parser) isKnownWord(name string) bool {
	if p.symbols[name] || knownFuncs[name] || funcAliases[name] != "" {
		return true
	}
	if _, ok := constNames[name]; ok {
		return true
	}
	_, ok := greekLaTeX[name]
	return ok
}

// vocabulary lists every multi-letter word, longest first.
func (p *parser) vocabulary() []string {
	var words []string
	add := func(w string) {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	for w := range p.symbols {
		add(w)
	}
	for w := range knownFuncs {
		add(w)
	}
	for w := range funcAliases {
		add(w)
	}
	for w := range constNames {
		add(w)
	}
	for w := range greekLaTeX {
		add(w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return words
}

// ------------------------------------------------------------
// Grammar
//
//   sum     := product (('+' | '-') product)*
//   product := unary (('*' | '/') unary | power)*
//   unary   := ('-' | '+') unary | power
//   power   := primary ('^' unary)?
//   primary := number | name | call | '(' sum ')'
// ------------------------------------------------------------

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			right = negate(right)
		}
		left = AddOf(left, right)
	}
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case t.kind == tokOp && (t.text == "*" || t.text == "/"):
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if t.text == "/" {
				right = PowOf(right, N(-1))
			}
			left = MulOf(left, right)
		case startsPrimary(t):
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		default:
			return left, nil
		}
	}
}

func startsPrimary(t token) bool {
	return t.kind == tokNum || t.kind == tokIdent || t.kind == tokLParen
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negate(operand), nil
		}
		return operand, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp && t.text == "^" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errAt(t, "invalid number "+t.text)
		}
		return &Num{val: r}, nil
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errAt(t, "missing closing parenthesis for '('")
		}
		return inner, nil
	case tokIdent:
		if p.symbols[t.text] {
			return S(t.text), nil
		}
		if name, ok := funcName(t.text); ok {
			return p.parseCall(t, name)
		}
		if c, ok := constNames[t.text]; ok {
			return c, nil
		}
		return S(t.text), nil
	case tokRParen:
		return nil, p.errAt(t, "unmatched ')'")
	case tokEOF:
		return nil, p.errAt(t, "unexpected end of expression")
	}
	return nil, p.errAt(t, "unexpected "+t.describe())
}

func funcName(ident string) (string, bool) {
	if alias, ok := funcAliases[ident]; ok {
		return alias, true
	}
	return ident, knownFuncs[ident]
}

func (p *parser) parseCall(head token, name string) (Expr, error) {
	// sin^2(x) means sin(x)^2.
	var power Expr
	if t := p.peek(); t.kind == tokOp && t.text == "^" {
		p.next()
		exp, err := p.parseUnaryPrimary()
		if err != nil {
			return nil, err
		}
		power = exp
	}

	var args []Expr
	if t := p.peek(); t.kind == tokLParen {
		p.next()
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			sep := p.next()
			if sep.kind == tokComma {
				continue
			}
			if sep.kind != tokRParen {
				return nil, p.errAt(t, "missing closing parenthesis for '('")
			}
			break
		}
	} else {
		if !startsPrimary(t) {
			return nil, p.errAt(head, fmt.Sprintf("function %s requires an argument", head.text))
		}
		arg, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		args = []Expr{arg}
	}

	call, err := p.buildCall(head, name, args)
	if err != nil {
		return nil, err
	}
	if power != nil {
		return PowOf(call, power), nil
	}
	return call, nil
}

func (p *parser) parseUnaryPrimary() (Expr, error) {
	t := p.peek()
	if t.kind == tokOp && t.text == "-" {
		p.next()
		e, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return negate(e), nil
	}
	return p.parsePrimary()
}

func (p *parser) buildCall(head token, name string, args []Expr) (Expr, error) {
	switch name {
	case "sqrt":
		if len(args) != 1 {
			return nil, p.errAt(head, fmt.Sprintf("%s takes 1 argument, got %d", head.text, len(args)))
		}
		return SqrtOf(args[0]), nil
	case "log":
		switch len(args) {
		case 1:
			return LogOf(args[0]), nil
		case 2:
			return MulOf(LogOf(args[0]), PowOf(LogOf(args[1]), N(-1))), nil
		}
		return nil, p.errAt(head, fmt.Sprintf("%s takes 1 or 2 arguments, got %d", head.text, len(args)))
	}
	if len(args) != 1 {
		return nil, p.errAt(head, fmt.Sprintf("%s takes 1 argument, got %d", head.text, len(args)))
	}
	e, _ := Apply(name, args[0])
	return e, nil
}
