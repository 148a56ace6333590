package skeleton

import "github.com/wplizard/cli/internal/piece"

// Pipeline is the ordered set of pieces for one run.
type Pipeline struct {
	Structure  *Structure
	Installers *Installers
	Config     *GenerateConfig
}

// NewPipeline builds the pieces for a run. Installers is nil unless
// opts.RunInstallers is set.
func NewPipeline(opts Options) *Pipeline {
	opts = opts.withDefaults()

	p := &Pipeline{Structure: NewStructure(opts)}
	if opts.RunInstallers {
		p.Installers = NewInstallers(opts)
	}
	p.Config = NewGenerateConfig(opts, p.Structure)
	return p
}

// Pieces returns the pieces in run order. The terminal step is last.
func (p *Pipeline) Pieces() []piece.Piece {
	out := []piece.Piece{p.Structure}
	if p.Installers != nil {
		out = append(out, p.Installers)
	}
	return append(out, p.Config)
}
