package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/standin/internal/adapters/logger"
	"go.trai.ch/standin/internal/core/ports"
)

const (
	// CompilerNodeID is the unique identifier for the compiler Graft node.
	CompilerNodeID graft.ID = "adapter.toolchain.compiler"
	// DisassemblerNodeID is the unique identifier for the disassembler Graft node.
	DisassemblerNodeID graft.ID = "adapter.toolchain.disassembler"
	// AssemblerNodeID is the unique identifier for the assembler Graft node.
	AssemblerNodeID graft.ID = "adapter.toolchain.assembler"
	// DecompilerNodeID is the unique identifier for the decompiler Graft node.
	DecompilerNodeID graft.ID = "adapter.toolchain.decompiler"
)

func init() {
	graft.Register(graft.Node[ports.Compiler]{
		ID:        CompilerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Compiler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCompiler(log), nil
		},
	})

	graft.Register(graft.Node[ports.Disassembler]{
		ID:        DisassemblerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Disassembler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDisassembler(log), nil
		},
	})

	graft.Register(graft.Node[ports.Assembler]{
		ID:        AssemblerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Assembler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewAssembler(log), nil
		},
	})

	graft.Register(graft.Node[ports.Decompiler]{
		ID:        DecompilerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Decompiler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDecompiler(log), nil
		},
	})
}
