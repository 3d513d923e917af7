package main

import (
	"fmt"
	"math"
	"wayfinder/internal/core"
	"wayfinder/internal/navigator"
	"wayfinder/internal/render"
	"wayfinder/internal/ui"
	"wayfinder/pkg/wayfinder"

	"github.com/spf13/cobra"
)

func routeCmd() *cobra.Command {
	var (
		at         string
		goal       string
		forceWater bool
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan a route from a position to a goal node",
		Long: `Project the position onto the nearest edge and plan the shortest route to
the goal, directly or through the water node closest to the goal.

  wayfinder route --at 0.5,0,0 --goal D
  wayfinder route --at 0.5,0,0 --goal D --force-water`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := wayfinder.ParseVector3D(at)
			if err != nil {
				return err
			}
			engine, cfg, err := loadEngine()
			if err != nil {
				return err
			}

			opts := engine.Navigator().Options()
			if cmd.Flags().Changed("force-water") {
				opts.ForceViaWater = forceWater
			}

			route, err := engine.PlanWithOptions(pos, goal, opts)
			if err != nil {
				return err
			}
			frame := engine.Frame(route)

			if jsonOut {
				return printJSON(frame)
			}
			printRoute(route, frame, cfg.Graph.WaterPrefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Query position x,y,z")
	cmd.Flags().StringVar(&goal, "goal", "", "Goal node name")
	cmd.Flags().BoolVar(&forceWater, "force-water", false, "Route through the closest water node")
	_ = cmd.MarkFlagRequired("at")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}

func printRoute(route *navigator.Route, frame render.Frame, waterPrefix string) {
	fmt.Fprintf(ui.Out, "  Goal:   %s\n", ui.Brand.Sprint(route.Goal.Name))
	if route.Water != nil {
		fmt.Fprintf(ui.Out, "  Water:  %s\n", ui.Water.Sprint(route.Water.Name))
	}
	fmt.Fprintf(ui.Out, "  Start:  %s on %s-%s\n",
		vec(route.Projection.Point), route.Projection.A.Name, route.Projection.B.Name)
	fmt.Fprintf(ui.Out, "  Route:  %s\n", ui.Route(route.Path.Names(), waterPrefix))

	via := "direct"
	if route.ViaWater {
		via = "via water"
	}
	fmt.Fprintf(ui.Out, "  Cost:   %.3f %s\n", route.Cost, ui.Subtle.Sprint("("+via+")"))

	for _, m := range frame.Markers {
		fmt.Fprintf(ui.Out, "  Marker: %-6s %s at %s\n", m.Kind, m.Node, vec(m.Position))
	}
}

func projectCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project a position onto the nearest graph edge",
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := wayfinder.ParseVector3D(at)
			if err != nil {
				return err
			}
			engine, _, err := loadEngine()
			if err != nil {
				return err
			}

			proj := engine.FindClosestProjection(pos)
			if !proj.Valid() {
				return navigator.ErrNoProjection
			}

			if jsonOut {
				return printJSON(map[string]interface{}{
					"a":        proj.A.Name,
					"b":        proj.B.Name,
					"point":    proj.Point,
					"da":       proj.DA,
					"db":       proj.DB,
					"distance": proj.Distance,
				})
			}

			ui.Table([]string{"edge", "point", "da", "db", "distance"}, [][]string{{
				proj.A.Name + "-" + proj.B.Name,
				vec(proj.Point),
				fmt.Sprintf("%.3f", proj.DA),
				fmt.Sprintf("%.3f", proj.DB),
				fmt.Sprintf("%.3f", proj.Distance),
			}})
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Query position x,y,z")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func pathCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Find the shortest path between two nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := loadEngine()
			if err != nil {
				return err
			}

			path, err := engine.FindPath(from, to)
			if err != nil {
				return err
			}

			length := wayfinder.PathLength(path)
			if math.IsInf(length, 1) {
				length = 0
			}
			if jsonOut {
				return printJSON(map[string]interface{}{"nodes": path.Names(), "length": length})
			}
			fmt.Fprintf(ui.Out, "  %s\n", ui.Route(path.Names(), cfg.Graph.WaterPrefix))
			fmt.Fprintf(ui.Out, "  Length: %.3f\n", length)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start node name")
	cmd.Flags().StringVar(&to, "to", "", "Goal node name")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func waterCmd() *cobra.Command {
	var goal string

	cmd := &cobra.Command{
		Use:   "water",
		Short: "Find the water node closest to a goal by path",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := loadEngine()
			if err != nil {
				return err
			}

			if goal == "" {
				return listWater(engine.WaterNodes())
			}

			water, err := engine.ClosestWaterNode(goal)
			if err != nil {
				return err
			}
			path, err := engine.FindPath(goal, water.Name)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(map[string]interface{}{
					"goal":   goal,
					"water":  water.Name,
					"length": wayfinder.PathLength(path),
				})
			}
			fmt.Fprintf(ui.Out, "  %s %s  %s\n", ui.StatusIcon(true), ui.Water.Sprint(water.Name),
				ui.Subtle.Sprintf("%.3f from %s", wayfinder.PathLength(path), goal))
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "", "Goal node name (omit to list water nodes)")

	return cmd
}

func listWater(nodes []*core.Node) error {
	if jsonOut {
		names := make([]string, len(nodes))
		for i, n := range nodes {
			names[i] = n.Name
		}
		return printJSON(names)
	}

	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{n.Name, vec(n.Position), fmt.Sprint(len(n.Neighbors))}
	}
	ui.Table([]string{"water", "position", "links"}, rows)
	return nil
}

func nearestCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the node closest to a position in a straight line",
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := wayfinder.ParseVector3D(at)
			if err != nil {
				return err
			}
			engine, _, err := loadEngine()
			if err != nil {
				return err
			}

			n := engine.NearestNode(pos)
			if n == nil {
				return fmt.Errorf("graph is empty")
			}

			dist := wayfinder.Distance(pos, n.Position)
			if jsonOut {
				return printJSON(map[string]interface{}{"node": n.Name, "distance": dist})
			}
			fmt.Fprintf(ui.Out, "  %s  %s\n", ui.Brand.Sprint(n.Name), ui.Subtle.Sprintf("%.3f away", dist))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Query position x,y,z")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func vec(v core.Vector3D) string {
	return ui.Vector(v.X, v.Y, v.Z)
}
