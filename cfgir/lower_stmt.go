package cfgir

import (
	"github.com/solang-go/solang/sema"
)

func (b *builder) lowerBlock(blk *sema.CheckedBlock) {
	if blk == nil {
		return
	}
	for _, st := range blk.Stmts {
		b.lowerStmt(st)
	}
}

func (b *builder) lowerStmt(st sema.CheckedStmt) {
	switch s := st.(type) {
	case *sema.CheckedBlock:
		b.lowerBlock(s)
	case *sema.CheckedUnchecked:
		prev := b.unchecked
		b.unchecked = true
		b.lowerBlock(s.Body)
		b.unchecked = prev
	case *sema.CheckedExprStmt:
		b.lowerExprMulti(s.X)
	case *sema.CheckedVarDecl:
		b.lowerVarDecl(s)
	case *sema.CheckedIf:
		b.lowerIf(s)
	case *sema.CheckedFor:
		b.lowerFor(s)
	case *sema.CheckedWhile:
		b.lowerWhile(s)
	case *sema.CheckedDoWhile:
		b.lowerDoWhile(s)
	case *sema.CheckedReturn:
		var vals []Value
		for _, v := range s.Values {
			vals = append(vals, b.lowerExpr(v))
		}
		b.setTerm(TermReturn{Values: vals})
	case *sema.CheckedBreak:
		if len(b.loops) == 0 {
			internalf(noSpan(), "break outside of a loop")
		}
		b.setTerm(TermBranch{Target: b.loops[len(b.loops)-1].breakTo})
	case *sema.CheckedContinue:
		if len(b.loops) == 0 {
			internalf(noSpan(), "continue outside of a loop")
		}
		b.setTerm(TermBranch{Target: b.loops[len(b.loops)-1].continueTo})
	case *sema.CheckedEmit:
		b.lowerEmit(s)
	case *sema.CheckedRevert:
		b.lowerRevert(s)
	case *sema.CheckedTry:
		b.lowerTry(s)
	case *sema.CheckedAssembly:
		// Opaque per spec.md §4.2; nothing to lower, but reaching it at
		// runtime is a boundary this compiler cannot reason about.
		b.emitVoid(Instr{Op: OpPrint, Args: []Value{StrLiteral("assembly block not lowered")}})
	default:
		internalf(noSpan(), "cfgir: unhandled statement %T", st)
	}
}

func (b *builder) lowerVarDecl(s *sema.CheckedVarDecl) {
	if s.Value == nil {
		for i, vn := range s.Vars {
			if vn == sema.NoVar {
				continue
			}
			b.declareLocal(vn, s.Types[i])
		}
		return
	}
	if len(s.Vars) == 1 {
		vn := s.Vars[0]
		val := b.lowerExpr(s.Value)
		cv := b.declareLocal(vn, s.Types[0])
		b.emitVoid(Instr{Op: OpStoreMemory, Args: []Value{VarRef{No: cv}, val}})
		return
	}
	vals := b.lowerExprTuple(s.Value, len(s.Vars))
	for i, vn := range s.Vars {
		if vn == sema.NoVar {
			continue
		}
		cv := b.declareLocal(vn, s.Types[i])
		b.emitVoid(Instr{Op: OpStoreMemory, Args: []Value{VarRef{No: cv}, vals[i]}})
	}
}

func (b *builder) declareLocal(vn sema.VarNo, ty sema.Type) VarNo {
	vi := b.ns.Var(vn)
	cv := b.vt.New(vi.Name, ty, StorageMemory, vn)
	b.locals[vn] = cv
	return cv
}

func (b *builder) lowerIf(s *sema.CheckedIf) {
	cond := b.lowerExpr(s.Cond)
	thenBB := b.newBlock()

	if s.Else == nil {
		joinBB := b.newBlock()
		b.setTerm(TermBranchCond{Cond: cond, True: thenBB.No, False: joinBB.No})
		b.cur = thenBB
		b.lowerStmt(s.Then)
		if b.cur.Term == nil {
			b.cur.Term = TermBranch{Target: joinBB.No}
		}
		b.cur = joinBB
		return
	}

	elseBB := b.newBlock()
	b.setTerm(TermBranchCond{Cond: cond, True: thenBB.No, False: elseBB.No})

	b.cur = thenBB
	b.lowerStmt(s.Then)
	thenFall := b.cur

	b.cur = elseBB
	b.lowerStmt(s.Else)
	elseFall := b.cur

	joinBB := b.newBlock()
	if thenFall.Term != nil && elseFall.Term != nil {
		joinBB.Term = TermUnreachable{}
	}
	if thenFall.Term == nil {
		thenFall.Term = TermBranch{Target: joinBB.No}
	}
	if elseFall.Term == nil {
		elseFall.Term = TermBranch{Target: joinBB.No}
	}
	b.cur = joinBB
}

func (b *builder) lowerWhile(s *sema.CheckedWhile) {
	headBB := b.newBlock()
	b.setTerm(TermBranch{Target: headBB.No})
	b.cur = headBB

	cond := b.lowerExpr(s.Cond)
	bodyBB, exitBB := b.newBlock(), b.newBlock()
	b.setTerm(TermBranchCond{Cond: cond, True: bodyBB.No, False: exitBB.No})

	b.loops = append(b.loops, loopTargets{breakTo: exitBB.No, continueTo: headBB.No})
	b.cur = bodyBB
	b.lowerStmt(s.Body)
	if b.cur.Term == nil {
		b.cur.Term = TermBranch{Target: headBB.No}
	}
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = exitBB
}

func (b *builder) lowerDoWhile(s *sema.CheckedDoWhile) {
	bodyBB := b.newBlock()
	b.setTerm(TermBranch{Target: bodyBB.No})

	condBB, exitBB := b.newBlock(), b.newBlock()

	b.loops = append(b.loops, loopTargets{breakTo: exitBB.No, continueTo: condBB.No})
	b.cur = bodyBB
	b.lowerStmt(s.Body)
	if b.cur.Term == nil {
		b.cur.Term = TermBranch{Target: condBB.No}
	}
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = condBB
	cond := b.lowerExpr(s.Cond)
	b.setTerm(TermBranchCond{Cond: cond, True: bodyBB.No, False: exitBB.No})

	b.cur = exitBB
}

func (b *builder) lowerFor(s *sema.CheckedFor) {
	if s.Init != nil {
		b.lowerStmt(s.Init)
	}
	headBB := b.newBlock()
	b.setTerm(TermBranch{Target: headBB.No})
	b.cur = headBB

	bodyBB, exitBB := b.newBlock(), b.newBlock()
	if s.Cond != nil {
		cond := b.lowerExpr(s.Cond)
		b.setTerm(TermBranchCond{Cond: cond, True: bodyBB.No, False: exitBB.No})
	} else {
		b.setTerm(TermBranch{Target: bodyBB.No})
	}

	postBB := b.newBlock()
	b.loops = append(b.loops, loopTargets{breakTo: exitBB.No, continueTo: postBB.No})
	b.cur = bodyBB
	b.lowerStmt(s.Body)
	if b.cur.Term == nil {
		b.cur.Term = TermBranch{Target: postBB.No}
	}
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = postBB
	if s.Post != nil {
		b.lowerExprMulti(s.Post)
	}
	b.setTerm(TermBranch{Target: headBB.No})

	b.cur = exitBB
}

// lowerEmit lowers `emit E(args)` to ABI-encoding: topic slot 0 is the
// event selector, the first three arguments each become a topic, and
// any further arguments become the log data. Whether a parameter was
// declared `indexed` is not consulted (spec.md §4.4, §6 "ABI
// descriptor ... event topics"). The selector itself is a target-hook concern
// (package target computes it via package abi); here the event
// number is carried on the instruction for that later stage.
func (b *builder) lowerEmit(s *sema.CheckedEmit) {
	ev := b.ns.Event(s.Event)
	var args []Value
	for _, a := range s.Args {
		args = append(args, b.lowerExpr(a))
	}
	topics := 1 // slot 0 is always the event selector
	var dataArgs, topicArgs []Value
	for i, pn := range ev.Params {
		_ = pn
		if i < len(args) {
			if topics < 4 {
				topicArgs = append(topicArgs, args[i])
				topics++
				continue
			}
			dataArgs = append(dataArgs, args[i])
		}
	}
	b.emitVoid(Instr{Op: OpAbiEncode, Args: dataArgs, ArgNames: []string{"emit:" + ev.Name}})
	for _, t := range topicArgs {
		b.emitVoid(Instr{Op: OpAbiEncode, Args: []Value{t}, ArgNames: []string{"topic:" + ev.Name}})
	}
}

// lowerRevert lowers `revert("msg")` / `revert CustomError(args)` to
// ABI-encoding the error selector plus arguments, then unconditionally
// aborting (spec.md §6 "error selectors"; reason is the stable
// "revert encountered" string).
func (b *builder) lowerRevert(s *sema.CheckedRevert) {
	if s.Error == sema.NoError {
		if s.Msg != nil {
			msg := b.lowerExpr(s.Msg)
			b.emitVoid(Instr{Op: OpAbiEncode, Args: []Value{msg}, Builtin: "Error(string)"})
		}
		b.setTerm(TermAssertFailure{Reason: ReasonRevertEncountered, Span: noSpan()})
		return
	}
	errInfo := b.ns.Error(s.Error)
	var args []Value
	for _, a := range s.Args {
		args = append(args, b.lowerExpr(a))
	}
	b.emitVoid(Instr{Op: OpAbiEncode, Args: args, Builtin: errInfo.Name})
	b.setTerm(TermAssertFailure{Reason: ReasonRevertEncountered, Span: noSpan()})
}

// lowerTry lowers `try external_call() returns (...) { body } catch
// (...) { ... }` to ABI-encode -> ExternalCall -> decode, with the
// call's failure branch routed to the first catch block's entry
// instead of AssertFailure (spec.md §4.4: "External calls lower to
// ABI-encode -> ExternalCall -> decode-return, with failure branching
// to AssertFailure"; try/catch is the one place that failure branch
// targets a catch block rather than the terminator).
func (b *builder) lowerTry(s *sema.CheckedTry) {
	okBB, failBB, joinBB := b.newBlock(), b.newBlock(), b.newBlock()

	callVal := b.lowerExprMulti(s.Expr)
	_ = callVal
	// The underlying CheckedCall already carries CallExternal; model
	// the try's success/fail split as a branch on an implicit "call
	// succeeded" boolean the target hook materializes.
	okFlag := b.emit(Instr{Op: OpCallExternal, Type: sema.Bool, Builtin: "try:ok"})
	b.setTerm(TermBranchCond{Cond: VarRef{No: okFlag}, True: okBB.No, False: failBB.No})

	b.cur = okBB
	if len(s.Returns) == 1 && callVal != nil {
		cv := b.declareLocal(s.Returns[0], b.ns.Var(s.Returns[0]).Type)
		b.emitVoid(Instr{Op: OpStoreMemory, Args: []Value{VarRef{No: cv}, callVal}})
	} else {
		vals := b.lowerExprTupleValue(callVal, len(s.Returns))
		for i, rn := range s.Returns {
			cv := b.declareLocal(rn, b.ns.Var(rn).Type)
			b.emitVoid(Instr{Op: OpStoreMemory, Args: []Value{VarRef{No: cv}, vals[i]}})
		}
	}
	b.lowerBlock(s.Body)
	if b.cur.Term == nil {
		b.cur.Term = TermBranch{Target: joinBB.No}
	}

	b.cur = failBB
	if len(s.Catches) > 0 {
		catch := s.Catches[0]
		for _, pn := range catch.Params {
			b.declareLocal(pn, b.ns.Var(pn).Type)
		}
		b.lowerBlock(catch.Body)
	}
	if b.cur.Term == nil {
		b.cur.Term = TermBranch{Target: joinBB.No}
	}

	b.cur = joinBB
}

func (b *builder) lowerExprTupleValue(v Value, n int) []Value {
	vals := make([]Value, n)
	for i := range vals {
		vals[i] = v
	}
	return vals
}
