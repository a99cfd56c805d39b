// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package astmodel

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxFileSize bounds the size of a single source file the parser
// will accept, guarding against pathological inputs.
const DefaultMaxFileSize = 5 * 1024 * 1024

// PythonParser implements Parser over tree-sitter's Python grammar. Each
// Parse call creates its own tree-sitter parser instance, so a single
// PythonParser is safe for concurrent use across per-file audit workers.
type PythonParser struct {
	maxFileSize int64
	opts        ParseOptions
}

// PythonParserOption configures a PythonParser.
type PythonParserOption func(*PythonParser)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(bytes int64) PythonParserOption {
	return func(p *PythonParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// WithParseOptions overrides DefaultParseOptions().
func WithParseOptions(opts ParseOptions) PythonParserOption {
	return func(p *PythonParser) { p.opts = opts }
}

// NewPythonParser returns a PythonParser configured with opts applied over
// the defaults.
func NewPythonParser(opts ...PythonParserOption) *PythonParser {
	p := &PythonParser{maxFileSize: DefaultMaxFileSize, opts: DefaultParseOptions()}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *PythonParser) Language() string     { return "python" }
func (p *PythonParser) Extensions() []string { return []string{".py", ".pyi"} }

// Parse walks tree-sitter's Python CST and rebuilds it as the engine's own
// tagged-variant Node tree, rooted at a KindModule node.
func (p *PythonParser) Parse(ctx context.Context, content []byte, filePath string) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextCanceled, err)
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, NewParseError(filePath, fmt.Sprintf("content size %d exceeds limit %d", len(content), p.maxFileSize))
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, NewParseErrorWithCause(filePath, 0, 0, "tree-sitter parse failed", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextCanceled, err)
	}

	mod := &Module{
		AbsPath:    filePath,
		DottedName: dottedNameFromPath(filePath),
		Source:     content,
	}
	w := &pythonWalker{source: content, mod: mod, opts: p.opts}
	mod.Root = w.convert(tree.RootNode(), nil)
	mod.AbsoluteImportActivated = true // Python 3 semantics; no from __future__ import absolute_import needed.
	return mod, nil
}

func dottedNameFromPath(filePath string) string {
	trimmed := strings.TrimSuffix(filePath, ".py")
	trimmed = strings.TrimPrefix(trimmed, "./")
	return strings.ReplaceAll(trimmed, "/", ".")
}

// pythonWalker converts a tree-sitter parse tree into the engine's Node
// tree. It holds no per-traversal state beyond the immutable source bytes
// and the Module every produced Node is stamped with.
type pythonWalker struct {
	source []byte
	mod    *Module
	opts   ParseOptions
}

func (w *pythonWalker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.source)
}

func (w *pythonWalker) loc(n *sitter.Node) (int, int, int, int) {
	start := n.StartPoint()
	end := n.EndPoint()
	return int(start.Row) + 1, int(start.Column) + 1, int(end.Row) + 1, int(end.Column) + 1
}

func (w *pythonWalker) newNode(kind NodeKind, n *sitter.Node) *Node {
	line, col, endLine, endCol := w.loc(n)
	return &Node{Kind: kind, Line: line, Col: col, EndLine: endLine, EndCol: endCol, Module: w.mod}
}

// convert builds the Node for ts and recursively attaches children. parent
// is wired via AddChild so Parent back-references are always consistent.
func (w *pythonWalker) convert(ts *sitter.Node, parent *Node) *Node {
	if ts == nil {
		return nil
	}
	switch ts.Type() {
	case pyModule:
		n := w.newNode(KindModule, ts)
		w.convertChildren(ts, n)
		return n

	case pyDecoratedDefinition:
		return w.convertDecorated(ts, parent)

	case pyFunctionDefinition:
		return w.convertFunction(ts, parent, false)

	case pyAsyncFunctionDefinition:
		// Some grammar versions nest a function_definition child; others
		// flatten the fields directly onto this node. Handle both.
		if inner := childByType(ts, pyFunctionDefinition); inner != nil {
			n := w.convertFunction(inner, parent, true)
			return n
		}
		return w.convertFunction(ts, parent, true)

	case pyClassDefinition:
		return w.convertClass(ts, parent)

	case pyCall:
		return w.convertCall(ts, parent)

	case pyAttribute:
		return w.convertAttribute(ts, parent)

	case pyAssignment:
		return w.convertAssign(ts, parent)

	case pyAugmentedAssignment:
		n := w.newNode(KindAugAssign, ts)
		if left := ts.ChildByFieldName("left"); left != nil {
			n.Name = w.text(left)
		}
		w.convertChildren(ts, n)
		return n

	case pyImportStatement:
		n := w.newNode(KindImport, ts)
		n.Name = w.text(ts)
		return n

	case pyImportFromStatement:
		n := w.newNode(KindImportFrom, ts)
		n.Name = w.text(ts)
		return n

	case pyIfStatement, pyElifClause:
		n := w.newNode(KindIf, ts)
		if cond := ts.ChildByFieldName("condition"); cond != nil {
			n.Value = w.text(cond)
		}
		w.convertChildren(ts, n)
		return n

	case pyForStatement:
		n := w.newNode(KindFor, ts)
		w.convertChildren(ts, n)
		return n

	case pyWhileStatement:
		n := w.newNode(KindWhile, ts)
		w.convertChildren(ts, n)
		return n

	case pyTryStatement:
		n := w.newNode(KindTry, ts)
		w.convertChildren(ts, n)
		return n

	case pyExceptClause:
		n := w.newNode(KindExceptHandler, ts)
		// A bare `except:` clause has no typed child identifying the
		// exception; W9035 (Exception Hygiene) looks for this.
		n.Name = ""
		for i := 0; i < int(ts.ChildCount()); i++ {
			c := ts.Child(i)
			if c.Type() == pyIdentifier || c.Type() == pyAttribute {
				n.Name = w.text(c)
				break
			}
		}
		w.convertChildren(ts, n)
		return n

	case pyWithStatement:
		n := w.newNode(KindWith, ts)
		w.convertChildren(ts, n)
		return n

	case pyRaiseStatement:
		n := w.newNode(KindRaise, ts)
		w.convertChildren(ts, n)
		return n

	case pyAssertStatement:
		n := w.newNode(KindAssert, ts)
		w.convertChildren(ts, n)
		return n

	case pyPassStatement:
		return w.newNode(KindPass, ts)

	case pyBreakStatement:
		return w.newNode(KindBreak, ts)

	case pyContinueStatement:
		return w.newNode(KindContinue, ts)

	case pyReturnStatement:
		n := w.newNode(KindReturn, ts)
		w.convertChildren(ts, n)
		return n

	case pyGlobalStatement, pyNonlocalStatement:
		n := w.newNode(KindGlobal, ts)
		n.Name = w.text(ts)
		return n

	case pyDeleteStatement:
		n := w.newNode(KindDelete, ts)
		w.convertChildren(ts, n)
		return n

	case pyLambda:
		n := w.newNode(KindLambda, ts)
		w.convertChildren(ts, n)
		return n

	case pyConditionalExpression:
		n := w.newNode(KindIfExp, ts)
		w.convertChildren(ts, n)
		return n

	case pyComparisonOperator:
		n := w.newNode(KindCompare, ts)
		n.Value = w.text(ts)
		w.convertChildren(ts, n)
		return n

	case pyBooleanOperator, pyNotOperator:
		n := w.newNode(KindBoolOp, ts)
		n.Value = operatorText(ts)
		w.convertChildren(ts, n)
		return n

	case pyUnaryOperator:
		n := w.newNode(KindUnaryOp, ts)
		w.convertChildren(ts, n)
		return n

	case pyBinaryOperator:
		n := w.newNode(KindBinOp, ts)
		w.convertChildren(ts, n)
		return n

	case pyDictionary, pyDictionaryComprehension:
		n := w.newNode(KindDict, ts)
		if ts.Type() == pyDictionaryComprehension {
			n.Kind = KindDictComp
		}
		w.convertChildren(ts, n)
		return n

	case pyList, pyListComprehension:
		n := w.newNode(KindList, ts)
		if ts.Type() == pyListComprehension {
			n.Kind = KindListComp
		}
		w.convertChildren(ts, n)
		return n

	case pySet, pySetComprehension:
		n := w.newNode(KindSet, ts)
		if ts.Type() == pySetComprehension {
			n.Kind = KindSetComp
		}
		w.convertChildren(ts, n)
		return n

	case pyTuple:
		n := w.newNode(KindTuple, ts)
		w.convertChildren(ts, n)
		return n

	case pyGeneratorExpression:
		n := w.newNode(KindGeneratorExp, ts)
		w.convertChildren(ts, n)
		return n

	case pyYield:
		n := w.newNode(KindYield, ts)
		if f := strings.Fields(w.text(ts)); len(f) > 1 && f[1] == "from" {
			n.Kind = KindYieldFrom
		}
		w.convertChildren(ts, n)
		return n

	case pyAwait:
		n := w.newNode(KindAwait, ts)
		w.convertChildren(ts, n)
		return n

	case pyListSplat, pyDictionarySplat:
		n := w.newNode(KindStarred, ts)
		w.convertChildren(ts, n)
		return n

	case pySubscript:
		n := w.newNode(KindSubscript, ts)
		w.convertChildren(ts, n)
		return n

	case pySlice:
		n := w.newNode(KindSlice, ts)
		w.convertChildren(ts, n)
		return n

	case pyNamedExpression:
		n := w.newNode(KindNamedExpr, ts)
		w.convertChildren(ts, n)
		return n

	case pyMatchStatement:
		n := w.newNode(KindMatch, ts)
		w.convertChildren(ts, n)
		return n

	case pyCaseClause:
		n := w.newNode(KindMatchCase, ts)
		w.convertChildren(ts, n)
		return n

	case pyIdentifier:
		n := w.newNode(KindName, ts)
		n.Name = w.text(ts)
		return n

	case pyString:
		n := w.newNode(KindConst, ts)
		n.Value = w.text(ts)
		return n

	case pyInteger, pyFloat, pyTrue, pyFalse, pyNone:
		n := w.newNode(KindConst, ts)
		n.Value = w.text(ts)
		return n

	case pyComment:
		if !w.opts.IncludeComments {
			return nil
		}
		n := w.newNode(KindConst, ts)
		n.Value = w.text(ts)
		return n

	case pyExpressionStatement:
		// Grammar noise: unwrap and splice the single meaningful child
		// directly into the parent so Call/Assign/etc. are reachable
		// without callers needing to know about statement wrappers.
		n := w.newNode(KindExpr, ts)
		w.convertChildren(ts, n)
		if len(n.Children) == 1 {
			return n.Children[0]
		}
		return n

	default:
		// Unknown/structural node (block, parameters handled elsewhere,
		// argument_list, etc.): recurse and splice children directly into
		// parent without materializing a node of our own, so the tree
		// stays free of grammar scaffolding nodes no rule understands.
		return w.convertPassthrough(ts, parent)
	}
}

// pyFromClauseMarker is not a real grammar node type; yield-from detection
// falls back to textual matching since tree-sitter-python grammar versions
// vary on whether "from" keyword is exposed as a distinct child.
const pyFromClauseMarker = "__never_matches__"

func (w *pythonWalker) convertChildren(ts *sitter.Node, parent *Node) {
	for i := 0; i < int(ts.ChildCount()); i++ {
		c := w.convert(ts.Child(i), parent)
		if c != nil {
			parent.AddChild(c)
		}
	}
}

// convertPassthrough recurses into ts's children without creating a node
// for ts itself, flattening grammar scaffolding (block, parameters list
// punctuation, argument_list) into the surrounding structural node.
func (w *pythonWalker) convertPassthrough(ts *sitter.Node, parent *Node) *Node {
	var first *Node
	for i := 0; i < int(ts.ChildCount()); i++ {
		c := w.convert(ts.Child(i), parent)
		if c == nil {
			continue
		}
		if parent != nil {
			parent.AddChild(c)
		}
		if first == nil {
			first = c
		}
	}
	return nil
}

func (w *pythonWalker) convertDecorated(ts *sitter.Node, parent *Node) *Node {
	var decorators []string
	var def *sitter.Node
	for i := 0; i < int(ts.ChildCount()); i++ {
		c := ts.Child(i)
		switch c.Type() {
		case pyDecorator:
			decorators = append(decorators, strings.TrimPrefix(strings.TrimSpace(w.text(c)), "@"))
		case pyFunctionDefinition, pyAsyncFunctionDefinition, pyClassDefinition:
			def = c
		}
	}
	if def == nil {
		return nil
	}
	var n *Node
	switch def.Type() {
	case pyClassDefinition:
		n = w.convertClass(def, parent)
	default:
		n = w.convertFunction(def, parent, def.Type() == pyAsyncFunctionDefinition)
	}
	if n != nil {
		n.Decorators = decorators
	}
	return n
}

func (w *pythonWalker) convertFunction(ts *sitter.Node, parent *Node, async bool) *Node {
	kind := KindFunctionDef
	if async {
		kind = KindAsyncFunctionDef
	}
	n := w.newNode(kind, ts)
	if name := ts.ChildByFieldName("name"); name != nil {
		n.Name = w.text(name)
	}
	if params := ts.ChildByFieldName("parameters"); params != nil {
		n.Params = w.extractParams(params)
	}
	if ret := ts.ChildByFieldName("return_type"); ret != nil {
		n.ReturnType = w.text(ret)
	}
	if body := ts.ChildByFieldName("body"); body != nil {
		w.convertChildren(body, n)
	}
	return n
}

func (w *pythonWalker) extractParams(ts *sitter.Node) []Param {
	var params []Param
	for i := 0; i < int(ts.ChildCount()); i++ {
		c := ts.Child(i)
		switch c.Type() {
		case pyIdentifier:
			params = append(params, Param{Name: w.text(c), Kind: ParamPositional})
		case pyTypedParameter:
			p := Param{Kind: ParamPositional}
			if id := firstChildOfType(c, pyIdentifier); id != nil {
				p.Name = w.text(id)
			}
			if t := c.ChildByFieldName("type"); t != nil {
				p.Annotation = w.text(t)
			}
			params = append(params, p)
		case pyDefaultParameter:
			p := Param{Kind: ParamPositional, HasDefault: true}
			if name := c.ChildByFieldName("name"); name != nil {
				p.Name = w.text(name)
			}
			params = append(params, p)
		case pyTypedDefaultParameter:
			p := Param{Kind: ParamPositional, HasDefault: true}
			if name := c.ChildByFieldName("name"); name != nil {
				p.Name = w.text(name)
			}
			if t := c.ChildByFieldName("type"); t != nil {
				p.Annotation = w.text(t)
			}
			params = append(params, p)
		case pyListSplatPattern:
			p := Param{Kind: ParamListSplat}
			if id := firstChildOfType(c, pyIdentifier); id != nil {
				p.Name = w.text(id)
			}
			params = append(params, p)
		case pyDictionarySplatPattern:
			p := Param{Kind: ParamDictSplat}
			if id := firstChildOfType(c, pyIdentifier); id != nil {
				p.Name = w.text(id)
			}
			params = append(params, p)
		}
	}
	return params
}

func (w *pythonWalker) convertClass(ts *sitter.Node, parent *Node) *Node {
	n := w.newNode(KindClassDef, ts)
	if name := ts.ChildByFieldName("name"); name != nil {
		n.Name = w.text(name)
	}
	if bases := ts.ChildByFieldName("superclasses"); bases != nil {
		for i := 0; i < int(bases.ChildCount()); i++ {
			c := bases.Child(i)
			if c.Type() == pyIdentifier || c.Type() == pyAttribute || c.Type() == pyKeywordArgument {
				n.Bases = append(n.Bases, w.text(c))
			}
		}
	}
	if body := ts.ChildByFieldName("body"); body != nil {
		w.convertChildren(body, n)
	}
	return n
}

func (w *pythonWalker) convertCall(ts *sitter.Node, parent *Node) *Node {
	n := w.newNode(KindCall, ts)
	if fn := ts.ChildByFieldName("function"); fn != nil {
		n.Name = w.text(fn)
	}
	if args := ts.ChildByFieldName("arguments"); args != nil {
		w.convertChildren(args, n)
	}
	return n
}

func (w *pythonWalker) convertAttribute(ts *sitter.Node, parent *Node) *Node {
	n := w.newNode(KindAttribute, ts)
	n.Name = w.text(ts)
	if obj := ts.ChildByFieldName("object"); obj != nil {
		if c := w.convert(obj, n); c != nil {
			n.AddChild(c)
		}
	}
	if attr := ts.ChildByFieldName("attribute"); attr != nil {
		n.Value = w.text(attr)
	}
	return n
}

func (w *pythonWalker) convertAssign(ts *sitter.Node, parent *Node) *Node {
	left := ts.ChildByFieldName("left")
	kind := KindAssign
	if left != nil && left.Type() == pyAttribute {
		kind = KindAssignAttr
	} else if left != nil && left.Type() == pyIdentifier {
		kind = KindAssignName
	}
	n := w.newNode(kind, ts)
	if left != nil {
		n.Name = w.text(left)
	}
	if t := ts.ChildByFieldName("type"); t != nil {
		n.ReturnType = w.text(t)
		if n.Kind == KindAssignName {
			n.Kind = KindAnnAssign
		}
	}
	if right := ts.ChildByFieldName("right"); right != nil {
		if c := w.convert(right, n); c != nil {
			n.AddChild(c)
		}
	}
	return n
}

func childByType(ts *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(ts.ChildCount()); i++ {
		if ts.Child(i).Type() == typ {
			return ts.Child(i)
		}
	}
	return nil
}

func firstChildOfType(ts *sitter.Node, typ string) *sitter.Node {
	return childByType(ts, typ)
}

func hasChildType(ts *sitter.Node, typ string) bool {
	return childByType(ts, typ) != nil
}

func operatorText(ts *sitter.Node) string {
	for i := 0; i < int(ts.ChildCount()); i++ {
		c := ts.Child(i)
		if c.Type() == "and" || c.Type() == "or" || c.Type() == "not" {
			return c.Type()
		}
	}
	return ""
}
