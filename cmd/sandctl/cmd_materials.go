package main

import (
	"encoding/json"
	"fmt"

	"pixsand/internal/sims/sand"

	"github.com/spf13/cobra"
)

type materialInfo struct {
	Tag     uint8  `json:"tag"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Movable bool   `json:"movable"`
}

func listMaterials() []materialInfo {
	var out []materialInfo
	for _, m := range sand.Materials() {
		c := sand.ColorOf(m)
		out = append(out, materialInfo{
			Tag:     uint8(m),
			Name:    m.String(),
			Color:   fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A),
			Movable: m.Movable(),
		})
	}
	return out
}

func newMaterialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List the materials, their tags and display colors",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(listMaterials())
			}
			fmt.Fprintf(out, "%-4s %-6s %-10s %s\n", "TAG", "NAME", "COLOR", "MOVES")
			for _, m := range listMaterials() {
				fmt.Fprintf(out, "%-4d %-6s %-10s %t\n", m.Tag, m.Name, m.Color, m.Movable)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print as JSON")
	return cmd
}
