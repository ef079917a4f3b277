package binder

import (
	"tsgo/internal/ast"
	"tsgo/internal/common"
)

// FlowNodeKind enumerates the CFG node kinds named in spec.md §4.6.1.
type FlowNodeKind int

const (
	FlowStart FlowNodeKind = iota
	FlowAssignment
	FlowConditionTrue
	FlowConditionFalse
	FlowLabel
	FlowLoopLabel
	FlowCall
	FlowSwitchClause
	FlowException
)

// FlowNodeId indexes into a FlowGraph's Nodes slice.
type FlowNodeId int

// FlowNode is one state in a function's control-flow graph (spec.md §3.3).
// Antecedents are the predecessor nodes a narrowing walk steps backward
// through; Node/Test carry the AST context a type-guard predicate needs
// (e.g. the tested expression for a Condition node).
type FlowNode struct {
	Kind        FlowNodeKind
	Antecedents []FlowNodeId
	Node        ast.Node // the statement/expression this flow node models
	Test        ast.Expr // guard expression, set for Condition{True,False}
	Label       string   // set for Label/LoopLabel nodes
}

// FlowGraph is the per-function CFG (spec.md §3.3, §4.4 behavior 4):
// linear statements form a chain, branches fork condition-true/false
// successors, loops close a back-edge onto a dedicated loop label, and
// try/catch/finally produce the matching edges. break and continue add no
// edges: the walk continues from the same current node after them, and a
// loop's exit node is reached only from its loop label.
type FlowGraph struct {
	Nodes []*FlowNode
	// RefFlow maps an identifier-reference-bearing AST node to the flow
	// node it reads at -- the "CFG node it evaluates in" of spec.md §3.3,
	// consulted by the Checker's flow analyzer.
	RefFlow map[ast.Node]FlowNodeId
}

func newFlowGraph() *FlowGraph {
	return &FlowGraph{RefFlow: make(map[ast.Node]FlowNodeId)}
}

func (g *FlowGraph) add(n *FlowNode) FlowNodeId {
	g.Nodes = append(g.Nodes, n)
	return FlowNodeId(len(g.Nodes) - 1)
}

// builder threads the "current" flow node through a straight-line walk of
// a function body, forking/joining at branches and loops the way the
// teacher's exhaustiveness walk threads a path state through match arms
// (internal/elaborate/exhaustiveness.go).
type builder struct {
	g       *FlowGraph
	loops   []loopLabels
	labeled map[common.Atom]FlowNodeId
}

type loopLabels struct {
	name     string
	continueTo FlowNodeId
	breakTo    FlowNodeId
}

// BuildFlowGraph constructs the CFG for one function body.
func BuildFlowGraph(body *ast.BlockStmt) *FlowGraph {
	g := newFlowGraph()
	bu := &builder{g: g, labeled: make(map[common.Atom]FlowNodeId)}
	start := g.add(&FlowNode{Kind: FlowStart, Node: body})
	bu.walkBlock(body, start)
	return g
}

func (bu *builder) walkBlock(block *ast.BlockStmt, cur FlowNodeId) FlowNodeId {
	for _, stmt := range block.Statements {
		cur = bu.walkStmt(stmt, cur)
	}
	return cur
}

func (bu *builder) walkStmt(stmt ast.Stmt, cur FlowNodeId) FlowNodeId {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		for _, d := range s.Declarators {
			if d.Init != nil {
				n := &FlowNode{Kind: FlowAssignment, Node: s, Antecedents: []FlowNodeId{cur}}
				cur = bu.g.add(n)
				bu.recordRefs(d.Init, cur)
			}
		}
		return cur
	case *ast.ExprStmt:
		n := &FlowNode{Kind: FlowAssignment, Node: s, Antecedents: []FlowNodeId{cur}}
		cur = bu.g.add(n)
		bu.recordRefs(s.Expr, cur)
		return cur
	case *ast.BlockStmt:
		return bu.walkBlock(s, cur)
	case *ast.IfStmt:
		trueNode := bu.g.add(&FlowNode{Kind: FlowConditionTrue, Node: s, Test: s.Test, Antecedents: []FlowNodeId{cur}})
		falseNode := bu.g.add(&FlowNode{Kind: FlowConditionFalse, Node: s, Test: s.Test, Antecedents: []FlowNodeId{cur}})
		bu.recordRefs(s.Test, cur)
		afterTrue := bu.walkStmt(s.Then, trueNode)
		afterFalse := falseNode
		if s.Else != nil {
			afterFalse = bu.walkStmt(s.Else, falseNode)
		}
		join := bu.g.add(&FlowNode{Kind: FlowLabel, Node: s, Antecedents: []FlowNodeId{afterTrue, afterFalse}})
		return join
	case *ast.WhileStmt:
		loopLabel := bu.g.add(&FlowNode{Kind: FlowLoopLabel, Node: s, Antecedents: []FlowNodeId{cur}})
		trueNode := bu.g.add(&FlowNode{Kind: FlowConditionTrue, Node: s, Test: s.Test, Antecedents: []FlowNodeId{loopLabel}})
		bu.recordRefs(s.Test, loopLabel)
		bu.loops = append(bu.loops, loopLabels{continueTo: loopLabel, breakTo: 0})
		after := bu.walkStmt(s.Body, trueNode)
		bu.loops = bu.loops[:len(bu.loops)-1]
		bu.g.Nodes[loopLabel].Antecedents = append(bu.g.Nodes[loopLabel].Antecedents, after)
		exit := bu.g.add(&FlowNode{Kind: FlowConditionFalse, Node: s, Test: s.Test, Antecedents: []FlowNodeId{loopLabel}})
		return exit
	case *ast.ForStmt:
		if s.Init != nil {
			cur = bu.walkStmt(s.Init, cur)
		}
		loopLabel := bu.g.add(&FlowNode{Kind: FlowLoopLabel, Node: s, Antecedents: []FlowNodeId{cur}})
		if s.Test != nil {
			bu.recordRefs(s.Test, loopLabel)
		}
		bu.loops = append(bu.loops, loopLabels{continueTo: loopLabel, breakTo: 0})
		after := bu.walkStmt(s.Body, loopLabel)
		if s.Update != nil {
			bu.recordRefs(s.Update, after)
		}
		bu.loops = bu.loops[:len(bu.loops)-1]
		bu.g.Nodes[loopLabel].Antecedents = append(bu.g.Nodes[loopLabel].Antecedents, after)
		exit := bu.g.add(&FlowNode{Kind: FlowConditionFalse, Node: s, Antecedents: []FlowNodeId{loopLabel}})
		return exit
	case *ast.SwitchStmt:
		bu.recordRefs(s.Disc, cur)
		var ends []FlowNodeId
		prior := cur
		for _, c := range s.Cases {
			clause := bu.g.add(&FlowNode{Kind: FlowSwitchClause, Node: s, Test: c.Test, Antecedents: []FlowNodeId{prior}})
			after := clause
			for _, inner := range c.Body {
				after = bu.walkStmt(inner, after)
			}
			ends = append(ends, after)
			prior = clause
		}
		return bu.g.add(&FlowNode{Kind: FlowLabel, Node: s, Antecedents: ends})
	case *ast.TryStmt:
		afterTry := bu.walkBlock(s.Block, cur)
		exNode := bu.g.add(&FlowNode{Kind: FlowException, Node: s, Antecedents: []FlowNodeId{cur}})
		result := afterTry
		if s.Catch != nil {
			afterCatch := bu.walkBlock(s.Catch.Body, exNode)
			result = bu.g.add(&FlowNode{Kind: FlowLabel, Node: s, Antecedents: []FlowNodeId{afterTry, afterCatch}})
		}
		if s.Finally != nil {
			result = bu.walkBlock(s.Finally, result)
		}
		return result
	case *ast.LabeledStmt:
		bu.labeled[s.Label] = cur
		return bu.walkStmt(s.Body, cur)
	case *ast.ReturnStmt:
		if s.Arg != nil {
			bu.recordRefs(s.Arg, cur)
		}
		return bu.g.add(&FlowNode{Kind: FlowLabel, Node: s, Antecedents: []FlowNodeId{cur}})
	case *ast.ThrowStmt:
		bu.recordRefs(s.Arg, cur)
		return bu.g.add(&FlowNode{Kind: FlowException, Node: s, Antecedents: []FlowNodeId{cur}})
	case *ast.BreakStmt, *ast.ContinueStmt:
		return cur
	default:
		return cur
	}
}

// recordRefs walks an expression subtree recording every identifier
// reference's flow node, so the Checker's narrowing walk (spec.md §4.6)
// can look up "the CFG node this reference reads at."
func (bu *builder) recordRefs(e ast.Expr, at FlowNodeId) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.Ident:
		bu.g.RefFlow[ex] = at
	case *ast.BinaryExpr:
		bu.recordRefs(ex.Left, at)
		bu.recordRefs(ex.Right, at)
	case *ast.LogicalExpr:
		bu.recordRefs(ex.Left, at)
		bu.recordRefs(ex.Right, at)
	case *ast.UnaryExpr:
		bu.recordRefs(ex.Arg, at)
	case *ast.AssignExpr:
		bu.recordRefs(ex.Target, at)
		bu.recordRefs(ex.Value, at)
	case *ast.ConditionalExpr:
		bu.recordRefs(ex.Test, at)
		bu.recordRefs(ex.Then, at)
		bu.recordRefs(ex.Else, at)
	case *ast.CallExpr:
		bu.recordRefs(ex.Callee, at)
		for _, a := range ex.Args {
			bu.recordRefs(a, at)
		}
	case *ast.MemberExpr:
		bu.recordRefs(ex.Object, at)
		if ex.Computed {
			bu.recordRefs(ex.Index, at)
		}
	case *ast.NonNullExpr:
		bu.recordRefs(ex.Expr, at)
	case *ast.TypeOfExpr:
		bu.recordRefs(ex.Expr, at)
	case *ast.TypeAssertion:
		bu.recordRefs(ex.Expr, at)
	}
}
