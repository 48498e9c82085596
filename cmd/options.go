package cmd

import (
	"github.com/viant/afs/url"
	"os"
)

type (
	// Options represents command line options
	Options struct {
		ConfigURL string   `short:"c" long:"config" description:"configuration URL"`
		Version   bool     `short:"v" long:"version" description:"build version"`
		Validate  Validate `command:"validate" description:"build specifications of registered types and print metamodel validation report"`
		Describe  Describe `command:"describe" description:"print members and facets of registered types"`
	}

	Validate struct{}

	Describe struct {
		Type string `short:"t" long:"type" description:"type name, empty describes every registered type"`
	}
)

// Init resolves relative config location
func (o *Options) Init() {
	if o.ConfigURL == "" || !url.IsRelative(o.ConfigURL) {
		return
	}
	if wd, err := os.Getwd(); err == nil {
		o.ConfigURL = url.Join(wd, o.ConfigURL)
	}
}
