package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/lvcad/pkg/app"
	"github.com/chazu/lvcad/pkg/dto"
)

var (
	// trim and extend
	editSegment string
	editTarget  string
	editEnd     string
	editPick    string
	editMax     string

	// fillet
	filletFirst  string
	filletSecond string
	filletRadius string
	filletCorner string
	filletName   string
)

// trimCmd trims a named segment against a named curve
var trimCmd = &cobra.Command{
	Use:   "trim DOC",
	Short: "Trim a segment back to its nearest intersection with a target",
	Long: `Moves one endpoint of --segment back to the intersection with --target
nearest to it. The moving endpoint is --end, or the endpoint nearest
--pick, or b.

With -o the document is written back with the segment replaced;
otherwise the result is printed.

Example:
  lvgeom trim plan.json --segment rib --target wall --end b -o plan.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

// extendCmd extends a named segment to a named curve
var extendCmd = &cobra.Command{
	Use:   "extend DOC",
	Short: "Extend a segment forward to the nearest intersection with a target",
	Long: `Moves one endpoint of --segment outward along its line to the first
intersection with --target. --max bounds the distance travelled.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtend,
}

// filletCmd rounds the corner between two named segments
var filletCmd = &cobra.Command{
	Use:   "fillet DOC",
	Short: "Fillet the corner between two segments",
	Long: `Fits an arc of --radius tangent to --first and --second and trims both
to the tangent points. --corner names the meeting endpoints, first then
second (for example "ba"); by default the closest pair is used.

With -o the trimmed segments replace the originals and the arc is added
as --name.

Example:
  lvgeom fillet plan.yaml --first base --second wall --radius "1 1/2in"`,
	Args: cobra.ExactArgs(1),
	RunE: runFillet,
}

func initEditCommands() {
	for _, c := range []*cobra.Command{trimCmd, extendCmd} {
		c.Flags().StringVar(&editSegment, "segment", "", "Name of the segment to change (required)")
		c.Flags().StringVar(&editTarget, "target", "", "Name of the boundary segment or circle (required)")
		c.Flags().StringVar(&editEnd, "end", "", "Endpoint that moves: a or b")
		c.Flags().StringVar(&editPick, "pick", "", "Pick point x,y choosing the nearer endpoint")
		c.Flags().StringVarP(&outPath, "output", "o", "", "Write the updated document here")
		_ = c.MarkFlagRequired("segment")
		_ = c.MarkFlagRequired("target")
	}
	extendCmd.Flags().StringVar(&editMax, "max", "", "Farthest the endpoint may travel (default: unbounded)")

	filletCmd.Flags().StringVar(&filletFirst, "first", "", "Name of the first segment (required)")
	filletCmd.Flags().StringVar(&filletSecond, "second", "", "Name of the second segment (required)")
	filletCmd.Flags().StringVar(&filletRadius, "radius", "", "Fillet radius as length text (required)")
	filletCmd.Flags().StringVar(&filletCorner, "corner", "", "Meeting endpoints, e.g. ba")
	filletCmd.Flags().StringVar(&filletName, "name", "", "Name for the new arc (default: FIRST-SECOND-fillet)")
	filletCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the updated document here")
	_ = filletCmd.MarkFlagRequired("first")
	_ = filletCmd.MarkFlagRequired("second")
	_ = filletCmd.MarkFlagRequired("radius")
}

// parsePick reads "x,y" in canonical inches.
func parsePick(s string) (*dto.PointDTO, error) {
	if s == "" {
		return nil, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("pick %q must be x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return nil, fmt.Errorf("pick %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return nil, fmt.Errorf("pick %q: %w", s, err)
	}
	return &dto.PointDTO{X: x, Y: y}, nil
}

// refused turns a failed reply into a command error after printing it.
func refused(cmd *cobra.Command, op string, r app.Reply) error {
	if err := printJSON(cmd.OutOrStdout(), r); err != nil {
		return err
	}
	return fmt.Errorf("%s refused (%s): %s", op, r.Kind, r.Error)
}

// replaceSegment swaps the geometry of the named segment entity.
func replaceSegment(doc *dto.Document, name string, s dto.SegmentDTO) error {
	for i, e := range doc.Entities {
		if e.Name == name && e.Type == dto.TypeSegment {
			doc.Entities[i].Geometry = s
			return nil
		}
	}
	return fmt.Errorf("no segment named %q", name)
}

// editInputs loads the application, the document and the operands shared
// by trim and extend.
func editInputs(docPath string) (*app.App, *dto.Document, dto.SegmentDTO, app.CurveDTO, *dto.PointDTO, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, dto.SegmentDTO{}, app.CurveDTO{}, nil, err
	}
	doc, err := a.ReadDocument(docPath)
	if err != nil {
		return nil, nil, dto.SegmentDTO{}, app.CurveDTO{}, nil, err
	}
	s, err := doc.Segment(editSegment, a.Tolerance())
	if err != nil {
		return nil, nil, dto.SegmentDTO{}, app.CurveDTO{}, nil, err
	}
	target, err := doc.Curve(editTarget, a.Tolerance())
	if err != nil {
		return nil, nil, dto.SegmentDTO{}, app.CurveDTO{}, nil, err
	}
	pick, err := parsePick(editPick)
	if err != nil {
		return nil, nil, dto.SegmentDTO{}, app.CurveDTO{}, nil, err
	}
	return a, doc, dto.FromSegment(s), app.CurveFrom(target), pick, nil
}

// finishEdit prints the reply, or with -o writes doc after replacing the
// named segments with the reply's segments in order.
func finishEdit(cmd *cobra.Command, a *app.App, doc *dto.Document, r app.Reply, names ...string) error {
	if outPath == "" {
		return printJSON(cmd.OutOrStdout(), r)
	}
	for i, name := range names {
		if err := replaceSegment(doc, name, r.Segments[i]); err != nil {
			return err
		}
	}
	return a.WriteDocument(outPath, doc)
}

func runTrim(cmd *cobra.Command, args []string) error {
	a, doc, s, target, pick, err := editInputs(args[0])
	if err != nil {
		return err
	}
	r := a.Trim(app.TrimRequest{Segment: s, Target: target, End: editEnd, Pick: pick})
	if r.Error != "" {
		return refused(cmd, "trim", r)
	}
	return finishEdit(cmd, a, doc, r, editSegment)
}

func runExtend(cmd *cobra.Command, args []string) error {
	a, doc, s, target, pick, err := editInputs(args[0])
	if err != nil {
		return err
	}
	r := a.Extend(app.ExtendRequest{Segment: s, Target: target, End: editEnd, Pick: pick, Max: editMax})
	if r.Error != "" {
		return refused(cmd, "extend", r)
	}
	return finishEdit(cmd, a, doc, r, editSegment)
}

func runFillet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	doc, err := a.ReadDocument(args[0])
	if err != nil {
		return err
	}
	tol := a.Tolerance()
	s1, err := doc.Segment(filletFirst, tol)
	if err != nil {
		return err
	}
	s2, err := doc.Segment(filletSecond, tol)
	if err != nil {
		return err
	}

	r := a.Fillet(app.FilletRequest{
		First:  dto.FromSegment(s1),
		Second: dto.FromSegment(s2),
		Radius: filletRadius,
		Corner: filletCorner,
	})
	if r.Error != "" {
		return refused(cmd, "fillet", r)
	}
	if outPath != "" {
		name := filletName
		if name == "" {
			name = filletFirst + "-" + filletSecond + "-fillet"
		}
		arc, err := r.Arc.Geom(tol)
		if err != nil {
			return err
		}
		if err := doc.Add(name, arc); err != nil {
			return err
		}
	}
	return finishEdit(cmd, a, doc, r, filletFirst, filletSecond)
}
