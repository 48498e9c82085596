package cmd

import (
	"context"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/viant/metamodel"
	"github.com/viant/metamodel/config"
	"github.com/viant/metamodel/facet"
	"github.com/viant/metamodel/logging"
	"github.com/viant/metamodel/spec"
	"io"
	"os"
	"reflect"
	"strings"
)

// RunApp runs command line application with the domain types
func RunApp(version string, args []string, types ...reflect.Type) error {
	return Run(context.Background(), version, args, os.Stdout, metamodel.WithTypes(types...))
}

// Run parses arguments and executes the selected command, validate is the default one
func Run(ctx context.Context, version string, args []string, w io.Writer, opts ...metamodel.Option) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	if options.Version {
		fmt.Fprintf(w, "Metamodel: version: %v\n", version)
		return nil
	}
	options.Init()
	cfg := &config.Config{}
	if options.ConfigURL != "" {
		var err error
		if cfg, err = config.NewConfigFromURL(ctx, options.ConfigURL); err != nil {
			return err
		}
	}
	cfg.Init()
	opts = append([]metamodel.Option{metamodel.WithLogger(logging.New(cfg.LogLevel, os.Stderr))}, opts...)
	srv, err := metamodel.New(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	types := metamodel.Types(opts...)
	command := ""
	if parser.Active != nil {
		command = parser.Active.Name
	}
	switch command {
	case "describe":
		return describe(ctx, srv, w, options.Describe.Type, types)
	default:
		return validate(ctx, srv, w, types)
	}
}

func validate(ctx context.Context, srv *metamodel.Service, w io.Writer, types []reflect.Type) error {
	built, err := srv.Warmup(ctx, types...)
	if err != nil {
		return err
	}
	report := srv.Report()
	if report.Len() == 0 {
		fmt.Fprintf(w, "metamodel validation: %v specification(s), no issues\n", built)
		return nil
	}
	fmt.Fprintln(w, report.Error())
	return errors.Errorf("metamodel validation failed with %v issue(s)", report.Len())
}

func describe(ctx context.Context, srv *metamodel.Service, w io.Writer, typeName string, types []reflect.Type) error {
	matched := 0
	for _, rType := range types {
		if typeName != "" && !strings.EqualFold(typeName, rType.Name()) && typeName != rType.String() {
			continue
		}
		aSpec, err := srv.SpecFor(ctx, rType)
		if err != nil {
			return err
		}
		matched++
		fmt.Fprintln(w, aSpec.Name)
		fmt.Fprintln(w, facetTable(aSpec))
	}
	if matched == 0 && typeName != "" {
		return errors.Errorf("unknown type: %v", typeName)
	}
	return nil
}

func facetTable(aSpec *spec.Specification) *table.Table {
	ret := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Holder", "Feature", "Kind", "Value", "Origin")
	ret.Rows(holderRows(aSpec.Name, aSpec.Holder)...)
	for _, member := range aSpec.Members {
		ret.Rows(holderRows(member.ID, member.Holder)...)
		for _, param := range member.Params {
			ret.Rows(holderRows(param.ID, param.Holder)...)
		}
	}
	return ret
}

func holderRows(id string, holder *facet.Holder) [][]string {
	var ret [][]string
	for _, f := range holder.Facets() {
		origin := f.Origin().String()
		if local, ok := holder.Local(f.Kind()); !ok || local != f {
			origin += " inherited"
		}
		ret = append(ret, []string{id, string(holder.Feature()), string(f.Kind()), facet.Describe(f), origin})
	}
	return ret
}
