package main

import (
	"context"
	"fmt"
	"github.com/google/gops/agent"
	"github.com/viant/metamodel"
	"github.com/viant/metamodel/cmd"
	"github.com/viant/metamodel/internal/testdomain"
	"log"
	"os"
)

func main() {
	go func() {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatal(err)
		}
	}()
	err := cmd.Run(context.Background(), metamodel.Version, os.Args[1:], os.Stdout,
		metamodel.WithTypes(testdomain.Types()...),
		metamodel.WithMixins(testdomain.Mixins()),
		metamodel.WithMetaAnnotations(testdomain.MetaAnnotations()))
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		log.Fatal(err)
	}
}
