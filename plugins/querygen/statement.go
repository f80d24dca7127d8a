package querygen

import (
	"fmt"
	"strconv"
	"strings"
)

// Statement は UnmarshalJSON の本体を組み立てる文の単位。
// String は indent 段のブロック内に置かれた文として整形する。先頭行のインデントは呼び出し側が付ける。
type Statement interface {
	String(indent int) string
}

// writeBlock は "{" の後ろに body を 1 段深く並べ、閉じ括弧までを書く。
func writeBlock(buf *strings.Builder, body []Statement, indent int) {
	tabs := strings.Repeat("\t", indent)
	buf.WriteString("{\n")
	for _, stmt := range body {
		buf.WriteString(tabs + "\t")
		buf.WriteString(stmt.String(indent + 1))
		buf.WriteString("\n")
	}
	buf.WriteString(tabs + "}")
}

// VariableDecl は `var raw map[string]jsontext.Value` のような宣言。
type VariableDecl struct {
	Name string
	Type string
}

func (v *VariableDecl) String(_ int) string {
	return fmt.Sprintf("var %s %s", v.Name, v.Type)
}

// IfStatement は if 文。Else があれば `} else ` に続けて出力するので、
// Else に IfStatement や ErrorCheckStatement を置くと else if の連鎖になる。
type IfStatement struct {
	Condition string
	Body      []Statement
	Else      Statement
}

func (i *IfStatement) String(indent int) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("if %s ", i.Condition))
	writeBlock(&buf, i.Body, indent)
	if i.Else != nil {
		buf.WriteString(" else ")
		buf.WriteString(i.Else.String(indent))
	}
	return buf.String()
}

// SwitchStatement は判別子による分岐。
//
//	switch t.Typename {
//	case "Droid", "Human":
//	    ...
//	}
type SwitchStatement struct {
	Expr  string
	Cases []SwitchCase
}

// SwitchCase の Values は文字列リテラルとして引用される。
type SwitchCase struct {
	Values []string
	Body   []Statement
}

func (s *SwitchStatement) String(indent int) string {
	var buf strings.Builder
	tabs := strings.Repeat("\t", indent)

	buf.WriteString(fmt.Sprintf("switch %s {\n", s.Expr))
	for _, c := range s.Cases {
		quoted := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			quoted = append(quoted, strconv.Quote(v))
		}
		buf.WriteString(tabs + "case " + strings.Join(quoted, ", ") + ":\n")
		for _, stmt := range c.Body {
			buf.WriteString(tabs + "\t")
			buf.WriteString(stmt.String(indent + 1))
			buf.WriteString("\n")
		}
	}
	buf.WriteString(tabs + "}")

	return buf.String()
}

// Assignment は `t.AsHuman = &HeroQuery_Data_Hero_AsHuman{}` のような代入。
type Assignment struct {
	Target string
	Value  string
}

func (a *Assignment) String(_ int) string {
	return a.Target + " = " + a.Value
}

// ReturnStatement は return 文。Value が空なら値を返さない。
type ReturnStatement struct {
	Value string
}

func (r *ReturnStatement) String(_ int) string {
	if r.Value == "" {
		return "return"
	}
	return "return " + r.Value
}

// ErrorCheckStatement は `if err := expr; err != nil { ... }`。
type ErrorCheckStatement struct {
	ErrorExpr string
	Body      []Statement
}

func (e *ErrorCheckStatement) String(indent int) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("if err := %s; err != nil ", e.ErrorExpr))
	writeBlock(&buf, e.Body, indent)
	return buf.String()
}

// returnErr は `if err := ...` の本体として使う。
var returnErr = []Statement{&ReturnStatement{Value: "err"}}
