// Package planfile reads schedule definitions written in HCL:
//
//	task "structure" {
//	  name         = "Estructura"
//	  duration     = 10
//	  predecessors = ["foundations"]
//	}
//
// Tasks keep the order in which they appear, across files in argument order.
package planfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/sistema/engine/internal/cpm"
)

// Task is one task block.
type Task struct {
	ID           string
	Name         string
	Duration     int
	Predecessors []string
	Range        hcl.Range
}

// Plan is the ordered set of tasks read from one or more files.
type Plan struct {
	Tasks []Task
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "task", LabelNames: []string{"id"}}},
}

type hclTask struct {
	Name         string   `hcl:"name,optional"`
	Duration     int      `hcl:"duration"`
	Predecessors []string `hcl:"predecessors,optional"`
}

// Load parses every path into a single plan.
func Load(paths ...string) (*Plan, error) {
	parser := hclparse.NewParser()
	plan := &Plan{Tasks: []Task{}}
	for _, path := range paths {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		if err := plan.decode(f); err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, err)
		}
	}
	return plan, nil
}

// Parse reads a plan from src; filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Plan, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	plan := &Plan{Tasks: []Task{}}
	if err := plan.decode(f); err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
	}
	return plan, nil
}

func (p *Plan) decode(f *hcl.File) error {
	content, diags := f.Body.Content(fileSchema)
	if diags.HasErrors() {
		return diags
	}
	for _, block := range content.Blocks {
		var t hclTask
		if diags := gohcl.DecodeBody(block.Body, nil, &t); diags.HasErrors() {
			return diags
		}
		preds := t.Predecessors
		if preds == nil {
			preds = []string{}
		}
		p.Tasks = append(p.Tasks, Task{
			ID:           block.Labels[0],
			Name:         t.Name,
			Duration:     t.Duration,
			Predecessors: preds,
			Range:        block.DefRange,
		})
	}
	return nil
}

// Nodes converts the plan for cpm.Compute, preserving task order.
func (p *Plan) Nodes() []cpm.Node {
	nodes := make([]cpm.Node, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		nodes = append(nodes, cpm.Node{ID: t.ID, Duration: t.Duration, Predecessors: t.Predecessors})
	}
	return nodes
}

// Name returns the display name of id, falling back to the id itself.
func (p *Plan) Name(id string) string {
	for _, t := range p.Tasks {
		if t.ID == id && t.Name != "" {
			return t.Name
		}
	}
	return id
}
