// Command armjitctl loads a flat guest binary image and drives an armjit.Jit
// against it, printing register state on exit or fault. It exists to give
// the library a runnable harness the way GVM's package main gave the
// stack-machine interpreter one, replaced here with a cobra+viper command
// tree instead of GVM's single flag.Bool("debug", ...).
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"armjit"
	"armjit/ir"
)

var log = logrus.StandardLogger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "armjitctl",
		Short: "Run a flat guest binary image through the ARM-to-x86-64 JIT",
	}
	root.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	viper.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a flat guest image and run it to completion or fault",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	cmd.Flags().String("arch", "a64", "guest instruction set: a32 or a64")
	cmd.Flags().Uint64("entry", 0, "guest entry point (virtual address)")
	cmd.Flags().Uint64("load-addr", 0, "guest virtual address the image is loaded at")
	cmd.Flags().Uint64("max-blocks", 100000, "abort after running this many compiled blocks (0 disables the limit)")
	cmd.Flags().Bool("single-step", false, "print guest PC and registers after every compiled block")
	viper.BindPFlags(cmd.Flags())
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("armjitctl: %w", err)
	}
	log.SetLevel(level)

	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("armjitctl: reading %s: %w", args[0], err)
	}

	arch := armjit.ArchA64
	if viper.GetString("arch") == "a32" {
		arch = armjit.ArchA32
	}

	mem := newGuestMemory(image, viper.GetUint64("load-addr"))
	jit, err := armjit.New(arch, viper.GetUint64("entry"), mem.callbacks())
	if err != nil {
		return fmt.Errorf("armjitctl: constructing jit: %w", err)
	}
	log.WithFields(logrus.Fields{
		"jit_id": jit.ID,
		"arch":   viper.GetString("arch"),
		"entry":  fmt.Sprintf("%#x", viper.GetUint64("entry")),
	}).Info("armjitctl: starting")

	maxBlocks := viper.GetUint64("max-blocks")
	singleStep := viper.GetBool("single-step")

	// max-blocks is this harness's backstop for a guest image that never
	// calls HaltExecution itself (CallSVC #0, this harness's exit
	// convention, is the cooperative path).

	var blocksRun uint64
	for {
		if maxBlocks != 0 && blocksRun >= maxBlocks {
			log.Warn("armjitctl: hit max-blocks, stopping")
			break
		}
		if err := jit.Run(); err != nil {
			dumpRegisters(jit)
			return fmt.Errorf("armjitctl: fault at pc %#x: %w", jit.PC(), err)
		}
		blocksRun++
		if singleStep {
			log.WithField("pc", fmt.Sprintf("%#x", jit.PC())).Debug("armjitctl: block boundary")
			dumpRegisters(jit)
		}
		if mem.halted {
			break
		}
	}

	log.WithField("blocks_run", blocksRun).Info("armjitctl: finished")
	dumpRegisters(jit)
	return nil
}

func dumpRegisters(jit *armjit.Jit) {
	regs := jit.Regs()
	for i, v := range regs {
		fmt.Printf("x%-2d = %#018x\n", i, v)
	}
	fmt.Printf("pc  = %#018x\n", jit.PC())
	fmt.Printf("nzcv = %#010x\n", jit.Flags())
}

// guestMemory backs a single flat byte slab addressed starting at base,
// standing in for the page-table-backed address space a real embedder
// would provide (spec.md §6's Non-goal on MMU modeling, carried over from
// the original distillation rather than SPEC_FULL.md supplementing it
// back in — armjitctl is a reference harness, not the embedder itself).
type guestMemory struct {
	base   uint64
	bytes  []byte
	halted bool
}

func newGuestMemory(image []byte, base uint64) *guestMemory {
	m := &guestMemory{base: base, bytes: make([]byte, len(image))}
	copy(m.bytes, image)
	return m
}

func (m *guestMemory) offset(vaddr uint64) (int, bool) {
	if vaddr < m.base {
		return 0, false
	}
	off := vaddr - m.base
	if off >= uint64(len(m.bytes)) {
		return 0, false
	}
	return int(off), true
}

func (m *guestMemory) read8(vaddr uint64) uint8 {
	off, ok := m.offset(vaddr)
	if !ok {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: read8 out of range")
		return 0
	}
	return m.bytes[off]
}

func (m *guestMemory) read16(vaddr uint64) uint16 {
	off, ok := m.offset(vaddr)
	if !ok || off+2 > len(m.bytes) {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: read16 out of range")
		return 0
	}
	return binary.LittleEndian.Uint16(m.bytes[off:])
}

func (m *guestMemory) read32(vaddr uint64) uint32 {
	off, ok := m.offset(vaddr)
	if !ok || off+4 > len(m.bytes) {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: read32 out of range")
		return 0
	}
	return binary.LittleEndian.Uint32(m.bytes[off:])
}

func (m *guestMemory) read64(vaddr uint64) uint64 {
	off, ok := m.offset(vaddr)
	if !ok || off+8 > len(m.bytes) {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: read64 out of range")
		return 0
	}
	return binary.LittleEndian.Uint64(m.bytes[off:])
}

func (m *guestMemory) write8(vaddr uint64, v uint8) {
	off, ok := m.offset(vaddr)
	if !ok {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: write8 out of range")
		return
	}
	m.bytes[off] = v
}

func (m *guestMemory) write16(vaddr uint64, v uint16) {
	off, ok := m.offset(vaddr)
	if !ok || off+2 > len(m.bytes) {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: write16 out of range")
		return
	}
	binary.LittleEndian.PutUint16(m.bytes[off:], v)
}

func (m *guestMemory) write32(vaddr uint64, v uint32) {
	off, ok := m.offset(vaddr)
	if !ok || off+4 > len(m.bytes) {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: write32 out of range")
		return
	}
	binary.LittleEndian.PutUint32(m.bytes[off:], v)
}

func (m *guestMemory) write64(vaddr uint64, v uint64) {
	off, ok := m.offset(vaddr)
	if !ok || off+8 > len(m.bytes) {
		log.WithField("vaddr", fmt.Sprintf("%#x", vaddr)).Warn("armjitctl: write64 out of range")
		return
	}
	binary.LittleEndian.PutUint64(m.bytes[off:], v)
}

// callbacks wires guestMemory into armjit.UserCallbacks. SVC #0 is the
// harness's exit convention (there is no guest OS to field the call);
// anything else is logged and ignored. InterpreterFallback has no real
// interpreter to hand off to, so it logs the decode miss and leaves PC
// where the translator already advanced it — acceptable for a reference
// harness whose job is running the translator/backend pipeline, not
// achieving full ISA coverage (spec.md §1's stated Non-goal).
func (m *guestMemory) callbacks() armjit.UserCallbacks {
	var ticksRemaining uint64 = 1 << 40
	return armjit.UserCallbacks{
		Memory: armjit.MemoryCallbacks{
			Read8:   m.read8,
			Read16:  m.read16,
			Read32:  m.read32,
			Read64:  m.read64,
			Write8:  m.write8,
			Write16: m.write16,
			Write32: m.write32,
			Write64: m.write64,
		},
		InterpreterFallback: func(desc ir.LocationDescriptor, runLength uint8) {
			log.WithFields(logrus.Fields{
				"pc":         fmt.Sprintf("%#x", desc.PC()),
				"run_length": runLength,
			}).Warn("armjitctl: decode miss, no interpreter fallback wired")
		},
		CallSVC: func(swi uint32) {
			if swi == 0 {
				m.halted = true
				return
			}
			log.WithField("swi", swi).Warn("armjitctl: unhandled supervisor call")
		},
		AddTicks: func(ticks uint64) {
			if ticks > ticksRemaining {
				ticksRemaining = 0
				return
			}
			ticksRemaining -= ticks
		},
		GetTicksRemaining: func() uint64 { return ticksRemaining },
	}
}
