package main

import (
	"fmt"
	"log"
	"os"

	"git.lost.host/meutraa/linesim/internal/config"
	"git.lost.host/meutraa/linesim/internal/parser"
	"git.lost.host/meutraa/linesim/internal/render"
	"git.lost.host/meutraa/linesim/internal/theme"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}

	// Ensure our Default implementations are used as interfaces
	var th theme.Theme = &theme.DefaultTheme{}
	var psr parser.Parser = &parser.DefaultParser{}

	r, err := render.New(th)
	if nil != err {
		return err
	}

	p := &Program{
		Config:   cfg,
		Parser:   psr,
		Theme:    th,
		Renderer: r,
	}
	defer p.Close()

	var summary string
	switch cfg.Command {
	case config.Calibrate:
		summary, err = p.Calibrate()
	default:
		summary, err = p.Play()
	}
	if nil != err {
		return err
	}
	fmt.Println(summary)
	return nil
}
