// ngr-go compiles bound template files into renderable template definitions:
// emitted template function code on stdout, plus a type-check file and a
// manifest of consts/decls/vars next to each input.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"ngr-go/packages/compiler"
	"ngr-go/packages/compiler/output"
	"ngr-go/packages/compiler/pool"
	"ngr-go/packages/compiler/typecheck"
)

// CompilerOptions is the YAML options file.
type CompilerOptions struct {
	// StrictContext rejects context property reads not listed below.
	StrictContext     bool     `yaml:"strictContext"`
	ContextProperties []string `yaml:"contextProperties"`
	// OutDir receives the type-check and manifest files; defaults to the
	// input file's directory.
	OutDir string `yaml:"outDir"`
	// Typecheck and Manifest toggle the auxiliary outputs.
	Typecheck bool `yaml:"typecheck"`
	Manifest  bool `yaml:"manifest"`
}

// Manifest is the JSON summary written next to each compiled template.
type Manifest struct {
	Component string   `json:"component"`
	FnName    string   `json:"fnName"`
	Decls     int      `json:"decls"`
	Vars      int      `json:"vars"`
	Consts    []string `json:"consts"`
}

func usage() {
	fmt.Fprintln(os.Stderr, `ngr-go - template compiler
Usage: ngr-go [-options ngr.yaml] template.json [template.json...]

Compiles each bound template file, printing the emitted template functions.
Diagnostics go to stderr; any failing template makes the exit status non-zero.`)
}

func main() {
	optionsPath := flag.String("options", "", "YAML options file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	opts, err := loadOptions(*optionsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ngr-go: %v\n", err)
		os.Exit(1)
	}

	// One pool per invocation: templates compiled together share hoisted
	// constants and claimed names.
	sharedPool := pool.NewConstantPool()
	failed := false
	for _, path := range flag.Args() {
		if err := compileFile(path, opts, sharedPool); err != nil {
			fmt.Fprintf(os.Stderr, "ngr-go: %s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func loadOptions(path string) (*CompilerOptions, error) {
	opts := &CompilerOptions{Typecheck: true, Manifest: true}
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("options file %s: %w", path, err)
	}
	return opts, nil
}

func compileFile(path string, opts *CompilerOptions, sharedPool *pool.ConstantPool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, nodes, err := DecodeTemplateFile(data)
	if err != nil {
		return err
	}

	compiled, diagnostics := compiler.CompileTemplate(file.Component, nodes, compiler.Options{
		StrictContext:     opts.StrictContext,
		ContextProperties: opts.ContextProperties,
		Pool:              sharedPool,
	})
	if len(diagnostics) > 0 {
		for _, d := range diagnostics {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return fmt.Errorf("%d diagnostic(s)", len(diagnostics))
	}

	fmt.Printf("// %s (decls: %d, vars: %d)\n", compiled.ComponentName, compiled.Decls, compiled.Vars)
	fmt.Println(compiled.Source())

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	if opts.Typecheck {
		tcb := typecheck.Generate(file.Component, nodes, typecheck.Options{ContextType: file.ContextType})
		if err := os.WriteFile(filepath.Join(outDir, base+".typecheck.ts"), []byte(tcb), 0o644); err != nil {
			return err
		}
	}
	if opts.Manifest {
		if err := writeManifest(filepath.Join(outDir, base+".manifest.json"), compiled); err != nil {
			return err
		}
	}
	return nil
}

func writeManifest(path string, compiled *compiler.CompiledTemplate) error {
	manifest := Manifest{
		Component: compiled.ComponentName,
		FnName:    compiled.FnName,
		Decls:     compiled.Decls,
		Vars:      compiled.Vars,
		Consts:    make([]string, len(compiled.Consts)),
	}
	for i, c := range compiled.Consts {
		manifest.Consts[i] = output.EmitExpression(c)
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
