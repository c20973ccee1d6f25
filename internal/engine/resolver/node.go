package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/standin/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/adapters/toolchain" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/standin/internal/engine/cache"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cache.NodeID,
			toolchain.DisassemblerNodeID,
			toolchain.AssemblerNodeID,
			toolchain.CompilerNodeID,
			toolchain.DecompilerNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			store, err := graft.Dep[*cache.Store](ctx)
			if err != nil {
				return nil, err
			}

			disasm, err := graft.Dep[ports.Disassembler](ctx)
			if err != nil {
				return nil, err
			}

			asm, err := graft.Dep[ports.Assembler](ctx)
			if err != nil {
				return nil, err
			}

			comp, err := graft.Dep[ports.Compiler](ctx)
			if err != nil {
				return nil, err
			}

			decomp, err := graft.Dep[ports.Decompiler](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return New(store, disasm, asm, comp, decomp, log, tracer, settings), nil
		},
	})
}
