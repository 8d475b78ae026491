// Command nodo is the headless runner: it loads a graph file, cooks
// its display node, and writes the result out as an OBJ mesh.
package main

import (
	"flag"
	"fmt"
	"os"

	"nodeflux/exec"
	"nodeflux/graph"
	"nodeflux/objio"
	"nodeflux/serialize"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nodo <input.nfg> <output.obj> [--verbose|-v] [--stats|-s] [--help|-h]")
	flag.PrintDefaults()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("nodo", flag.ContinueOnError)
	fs.Usage = usage
	var verbose, stats, help bool
	fs.BoolVar(&verbose, "verbose", false, "render cook progress")
	fs.BoolVar(&verbose, "v", false, "render cook progress (shorthand)")
	fs.BoolVar(&stats, "stats", false, "print per-node cook statistics")
	fs.BoolVar(&stats, "s", false, "print per-node cook statistics (shorthand)")
	fs.BoolVar(&help, "help", false, "show usage")
	fs.BoolVar(&help, "h", false, "show usage (shorthand)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if help {
		usage()
		return 0
	}
	rest := fs.Args()
	if len(rest) != 2 {
		usage()
		return 1
	}
	input, output := rest[0], rest[1]

	in, err := os.Open(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nodo:", err)
		return 1
	}
	g, warnings, err := serialize.Decode(in)
	in.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "nodo:", err)
		return 1
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "nodo: warning:", w)
	}

	host := &cliHost{verbose: verbose}
	eng := exec.New(g, host)
	res := eng.ExecuteGraph()
	if res.LastError != nil {
		fmt.Fprintln(os.Stderr, "nodo:", res.LastError)
		return 1
	}

	if stats {
		printStats(g)
	}

	if g.DisplayNode() < 0 {
		fmt.Fprintln(os.Stderr, "nodo: graph has no display node, nothing to export")
		return 1
	}
	handle, ok := eng.GetNodeGeometry(g.DisplayNode())
	if !ok {
		fmt.Fprintln(os.Stderr, "nodo: display node produced no geometry")
		return 1
	}

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nodo:", err)
		return 1
	}
	defer out.Close()
	if err := objio.Export(out, handle.Read()); err != nil {
		fmt.Fprintln(os.Stderr, "nodo:", err)
		return 1
	}
	return 0
}

func printStats(g *graph.NodeGraph) {
	for _, gn := range g.Nodes() {
		s := gn.Node.Stats()
		fmt.Printf("%-20s %-16s cooks=%-4d last=%s state=%v\n", gn.Name, s.TypeName, s.CookCount, s.LastCook, s.State)
	}
}

// cliHost renders progress to stderr when verbose, and forwards log
// lines through the standard exec.DefaultHostInterface logger.
type cliHost struct {
	exec.DefaultHostInterface
	verbose bool
}

func (h *cliHost) ReportProgress(current, total int, msg string) bool {
	if h.verbose {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, msg)
	}
	return true
}
