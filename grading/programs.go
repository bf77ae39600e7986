package grading

import "github.com/borzacchiello/goconcolic/programs"

type VariantInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProgramInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Params      []string      `json:"params"`
	Variants    []VariantInfo `json:"variants"`
}

// Programs describes the registered programs, sorted by name.
func Programs() []ProgramInfo {
	all := programs.All()
	res := make([]ProgramInfo, 0, len(all))
	for _, p := range all {
		info := ProgramInfo{
			Name:        p.Name,
			Description: p.Description,
			Params:      p.Params,
			Variants:    make([]VariantInfo, 0, len(p.Variants)),
		}
		for _, v := range p.Variants {
			info.Variants = append(info.Variants, VariantInfo{Name: v.Name, Description: v.Description})
		}
		res = append(res, info)
	}
	return res
}
