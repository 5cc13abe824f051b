package x64

import "armjit/ir"

// emitTrampolineCall loads this Jit instance's *CallbackBridge (the
// pointer stashed at JitState.Callbacks by New) into RDI and calls the
// process-wide trampoline entry point at addr — a direct CALL to a fixed
// address baked into the instruction stream at compile time, since every
// Jit shares the same ten trampolines (callbacks_amd64.s) and only the
// bridge they dereference differs per instance.
func (x *EmitX64) emitTrampolineCall(addr uintptr, setupArgs func()) {
	scratch := x.RegAlloc.ScratchRegister()
	x.Asm.LoadMem64(scratch, x.StateReg, x.Offsets.Callbacks)
	setupArgs()
	x.Asm.MovRegReg(RDI, scratch)
	x.RegAlloc.ReleaseScratch(scratch)

	target := x.RegAlloc.ScratchRegister()
	x.Asm.MovRegImm64(target, uint64(addr))
	x.Asm.CallRegAbsolute(target)
	x.RegAlloc.ReleaseScratch(target)
}

// emitReadMemory lowers ReadMemory{8,16,32,64}: the guest address goes in
// RSI, the bridge pointer in RDI, matching dispatchRead8/16/32/64's
// signature (callbacks.go). The trampoline returns the loaded value in
// RAX per the System V convention.
func emitReadMemory(x *EmitX64, inst *ir.Inst) {
	vaddr := inst.Arg(0).Inst()
	vaddrReg := x.RegAlloc.UseRegister(vaddr)

	var addr uintptr
	switch inst.Opcode() {
	case ir.OpReadMemory8:
		addr = x.Callbacks.ReadMemory8
	case ir.OpReadMemory16:
		addr = x.Callbacks.ReadMemory16
	case ir.OpReadMemory32:
		addr = x.Callbacks.ReadMemory32
	case ir.OpReadMemory64:
		addr = x.Callbacks.ReadMemory64
	}
	x.emitTrampolineCall(addr, func() {
		x.Asm.MovRegReg(RSI, vaddrReg)
	})

	dst := x.RegAlloc.DefRegister(inst)
	if dst != RAX {
		x.Asm.MovRegReg(dst, RAX)
	}
}

// emitWriteMemory lowers WriteMemory{8,16,32,64}: RSI carries the guest
// address, RDX the value to store.
func emitWriteMemory(x *EmitX64, inst *ir.Inst) {
	vaddr := inst.Arg(0).Inst()
	value := inst.Arg(1).Inst()
	vaddrReg := x.RegAlloc.UseRegister(vaddr)
	valueReg := x.RegAlloc.UseRegister(value)

	var addr uintptr
	switch inst.Opcode() {
	case ir.OpWriteMemory8:
		addr = x.Callbacks.WriteMemory8
	case ir.OpWriteMemory16:
		addr = x.Callbacks.WriteMemory16
	case ir.OpWriteMemory32:
		addr = x.Callbacks.WriteMemory32
	case ir.OpWriteMemory64:
		addr = x.Callbacks.WriteMemory64
	}
	x.emitTrampolineCall(addr, func() {
		x.Asm.MovRegReg(RSI, vaddrReg)
		x.Asm.MovRegReg(RDX, valueReg)
	})
}

// emitCallSupervisor lowers CallSupervisor: the SWI immediate goes in ESI.
func emitCallSupervisor(x *EmitX64, inst *ir.Inst) {
	swi := uint32(inst.ImmU64())
	x.emitTrampolineCall(x.Callbacks.Supervisor, func() {
		x.Asm.MovRegImm32(RSI, swi)
	})
}

// emitCallInterpreter lowers CallInterpreter: the packed LocationDescriptor
// goes in RSI, the run length MergeInterpretBlocks recorded (0 meaning
// "one guest instruction") in RDX.
func emitCallInterpreter(x *EmitX64, inst *ir.Inst) {
	descValue := inst.ImmU64()
	runLength := inst.InterpreterRunLength()
	if runLength == 0 {
		runLength = 1
	}
	x.emitTrampolineCall(x.Callbacks.Interpreter, func() {
		x.Asm.MovRegImm64(RSI, descValue)
		x.Asm.MovRegImm32(RDX, uint32(runLength))
	})
}

// emitPushRSB emits nothing: this backend keeps no return-stack buffer,
// in JitState or in the dispatcher.
func emitPushRSB(x *EmitX64, inst *ir.Inst) {}

// emitBreakpoint emits an INT3.
func emitBreakpoint(x *EmitX64, inst *ir.Inst) {
	x.Asm.Int3()
}
