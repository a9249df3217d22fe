package render

import (
	"strings"
)

// Check validates every variable path used by source against registry,
// starting at rootType. It understands the subset of tags the binder allows
// and rejects every other tag, so a template that passes cannot read a value
// outside the allow-list. Syntax the checker accepts can still be rejected by
// the engine at render time.
func Check(registry *Registry, rootType, source string) error {
	if registry == nil {
		registry = DefaultRegistry()
	}
	c := &checker{
		registry: registry,
		root:     rootType,
		scopes:   []map[string]binding{{}},
	}
	return c.run(source)
}

const forloopType = "forloop"

var forloopFields = map[string]binding{
	"Counter":     {typ: TypeString},
	"Counter0":    {typ: TypeString},
	"Revcounter":  {typ: TypeString},
	"Revcounter0": {typ: TypeString},
	"First":       {typ: TypeString},
	"Last":        {typ: TypeString},
	"Parentloop":  {typ: forloopType},
}

// Keywords of the engine lexer. Any other identifier is a variable lookup.
var keywords = map[string]bool{
	"in": true, "not": true, "and": true, "or": true,
	"true": true, "false": true,
}

// Tags whose arguments need no checking.
var bareTags = map[string]bool{
	"else": true, "endif": true, "empty": true,
	"autoescape": true, "endautoescape": true,
	"spaceless": true, "endspaceless": true,
	"endfilter": true,
}

type binding struct {
	typ  string
	list bool
}

type checker struct {
	registry  *Registry
	root      string
	scopes    []map[string]binding
	inComment bool
}

func (c *checker) run(source string) error {
	for i := 0; i+1 < len(source); {
		if source[i] != '{' {
			i++
			continue
		}
		var closer string
		switch source[i+1] {
		case '{':
			closer = "}}"
		case '%':
			closer = "%}"
		case '#':
			closer = "#}"
		default:
			i++
			continue
		}

		line := 1 + strings.Count(source[:i], "\n")
		end := strings.Index(source[i+2:], closer)
		if end < 0 {
			return syntaxError(line, "unterminated %q tag", source[i:i+2])
		}
		body := strings.TrimSpace(source[i+2 : i+2+end])
		body = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(body, "-"), "-"))
		kind := source[i+1]
		i += 2 + end + len(closer)

		if c.inComment {
			if kind == '%' && body == "endcomment" {
				c.inComment = false
			}
			continue
		}

		var err error
		switch kind {
		case '{':
			_, err = c.expression(line, body)
		case '%':
			err = c.tag(line, body)
		}
		if err != nil {
			return err
		}
	}

	if c.inComment {
		return syntaxError(0, "unclosed comment block")
	}
	if len(c.scopes) > 1 {
		return syntaxError(0, "unclosed for block")
	}
	return nil
}

func (c *checker) tag(line int, body string) error {
	toks, err := tokenize(line, body)
	if err != nil {
		return err
	}
	if len(toks) == 0 || toks[0].kind != tokIdent {
		return syntaxError(line, "empty block tag")
	}

	name, args := toks[0].val, toks[1:]
	switch {
	case bareTags[name]:
		return nil
	case name == "if" || name == "elif" || name == "firstof":
		_, err := c.tokens(line, args)
		return err
	case name == "filter":
		_, err := c.tokens(line, append([]token{{kind: tokSymbol, val: "|"}}, args...))
		return err
	case name == "comment":
		c.inComment = true
		return nil
	case name == "for":
		return c.forTag(line, args)
	case name == "endfor":
		if len(c.scopes) == 1 {
			return syntaxError(line, "endfor without for")
		}
		c.scopes = c.scopes[:len(c.scopes)-1]
		return nil
	default:
		return syntaxError(line, "tag %q is not supported", name)
	}
}

// forTag handles `for x in path` and `for k, v in path`. The loop variables
// are bound to the element type of path for the body of the loop.
func (c *checker) forTag(line int, args []token) error {
	var names []string
	i := 0
	for ; i < len(args); i++ {
		t := args[i]
		if t.kind == tokIdent && t.val == "in" {
			break
		}
		if t.kind == tokSymbol && t.val == "," {
			continue
		}
		if t.kind != tokIdent || keywords[t.val] {
			return syntaxError(line, "invalid for loop variable %q", t.val)
		}
		names = append(names, t.val)
	}
	if i == len(args) || len(names) == 0 || len(names) > 2 {
		return syntaxError(line, "malformed for tag")
	}

	expr := args[i+1:]
	for len(expr) > 0 {
		last := expr[len(expr)-1]
		if last.kind != tokIdent || (last.val != "reversed" && last.val != "sorted") {
			break
		}
		expr = expr[:len(expr)-1]
	}

	source, err := c.tokens(line, expr)
	if err != nil {
		return err
	}
	elem := binding{typ: TypeString}
	if source.list {
		elem = binding{typ: source.typ}
	}

	scope := map[string]binding{"forloop": {typ: forloopType}}
	if len(names) == 1 {
		scope[names[0]] = elem
	} else {
		scope[names[0]] = binding{typ: TypeString}
		scope[names[1]] = elem
	}
	c.scopes = append(c.scopes, scope)
	return nil
}

func (c *checker) expression(line int, body string) (binding, error) {
	toks, err := tokenize(line, body)
	if err != nil {
		return binding{}, err
	}
	return c.tokens(line, toks)
}

// tokens checks every variable path in toks and returns the binding of the
// first one.
func (c *checker) tokens(line int, toks []token) (binding, error) {
	var first binding
	found := false

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.kind {
		case tokSymbol:
			switch t.val {
			case "|":
				if i+1 >= len(toks) || toks[i+1].kind != tokIdent {
					return binding{}, syntaxError(line, "missing filter name")
				}
				i++
			case "[", "(":
				return binding{}, syntaxError(line, "%q is not supported in expressions", t.val)
			}
		case tokIdent:
			if keywords[t.val] {
				continue
			}
			segs := []token{t}
			for i+1 < len(toks) && toks[i+1].kind == tokSymbol && toks[i+1].val == "." {
				if i+2 >= len(toks) || (toks[i+2].kind != tokIdent && toks[i+2].kind != tokNumber) {
					return binding{}, syntaxError(line, "dangling %q after %q", ".", t.val)
				}
				segs = append(segs, toks[i+2])
				i += 2
			}
			b, err := c.resolve(line, segs)
			if err != nil {
				return binding{}, err
			}
			if !found {
				first, found = b, true
			}
		}
	}
	return first, nil
}

func (c *checker) resolve(line int, segs []token) (binding, error) {
	parts := make([]string, len(segs))
	for i, seg := range segs {
		parts[i] = seg.val
	}
	path := strings.Join(parts, ".")

	cur, ok := c.scoped(segs[0].val)
	if !ok {
		field, exists := c.field(c.root, segs[0].val)
		if !exists {
			return binding{}, fieldError(line, path, c.root, segs[0].val)
		}
		cur = field
	}

	for _, seg := range segs[1:] {
		if seg.kind == tokNumber {
			if !cur.list {
				return binding{}, fieldError(line, path, cur.typ, seg.val)
			}
			cur = binding{typ: cur.typ}
			continue
		}
		if cur.list {
			return binding{}, fieldError(line, path, "list of "+cur.typ, seg.val)
		}
		next, exists := c.field(cur.typ, seg.val)
		if !exists {
			return binding{}, fieldError(line, path, cur.typ, seg.val)
		}
		cur = next
	}
	return cur, nil
}

func (c *checker) scoped(name string) (binding, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if b, ok := c.scopes[i][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

func (c *checker) field(typeName, name string) (binding, bool) {
	if typeName == forloopType {
		b, ok := forloopFields[name]
		return b, ok
	}
	f, ok := c.registry.Field(typeName, name)
	if !ok {
		return binding{}, false
	}
	return binding{typ: f.Type, list: f.List}, true
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokSymbol
)

type token struct {
	kind tokenKind
	val  string
}

func tokenize(line int, src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '"' || ch == '\'':
			j := i + 1
			for j < len(src) && src[j] != ch {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return nil, syntaxError(line, "unterminated string literal")
			}
			toks = append(toks, token{kind: tokString, val: src[i+1 : j]})
			i = j + 1
		case isDigit(ch):
			j := i
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			if j+1 < len(src) && src[j] == '.' && isDigit(src[j+1]) && !afterDot(toks) {
				j++
				for j < len(src) && isDigit(src[j]) {
					j++
				}
			}
			toks = append(toks, token{kind: tokNumber, val: src[i:j]})
			i = j
		case isIdentStart(ch):
			j := i
			for j < len(src) && (isIdentStart(src[j]) || isDigit(src[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, val: src[i:j]})
			i = j
		default:
			if i+1 < len(src) {
				if pair := src[i : i+2]; pair == "||" || pair == "&&" || pair == "==" || pair == "!=" || pair == "<=" || pair == ">=" {
					toks = append(toks, token{kind: tokSymbol, val: pair})
					i += 2
					continue
				}
			}
			toks = append(toks, token{kind: tokSymbol, val: string(ch)})
			i++
		}
	}
	return toks, nil
}

// afterDot reports whether the next token continues a dotted path, where a
// number is a list index rather than a float.
func afterDot(toks []token) bool {
	return len(toks) > 0 && toks[len(toks)-1].kind == tokSymbol && toks[len(toks)-1].val == "."
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
