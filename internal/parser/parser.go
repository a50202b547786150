package parser

import "git.lost.host/meutraa/linesim/internal/game"

type Parser interface {
	Parse(file string) (*game.Chart, error)
}
