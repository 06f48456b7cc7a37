package strategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/freeeve/bastion/pkg/arena"
)

// Kind selects which posture family a profile runs.
type Kind string

const (
	// KindTurtle holds early, then bombards a dense front or spams scouts.
	KindTurtle Kind = "turtle"
	// KindFunnel runs the Consolidate/Strike corner combo.
	KindFunnel Kind = "funnel"
)

// Layout is the defensive template rebuilt every turn.
type Layout struct {
	Turrets  []arena.Location
	Walls    []arena.Location
	Supports []arena.Location
}

// Corner is the geometry one side of the combo works with.
type Corner struct {
	Wall             arena.Location
	Turret           arena.Location
	LaneGap          []arena.Location
	LaneWalls        []arena.Location
	InterceptorPoint arena.Location
	LaunchPoint      arena.Location
}

// Wave is a fixed mobile deploy.
type Wave struct {
	Unit     arena.UnitType
	Location arena.Location
	Count    int
}

// Profile parametrizes the posture selector. The first group applies to
// every kind; the second is read only by turtle profiles and the third only
// by funnel profiles.
type Profile struct {
	Name               string
	Kind               Kind
	LowHealthThreshold float64
	ReactiveTurrets    bool
	Layout             Layout

	TurtleTurns    int
	FrontRows      []int
	FrontThreshold int
	BombardWhen    string
	BombardRow     int
	BombardFromX   int
	BombardToX     int
	BombardPoint   arena.Location
	ScoutPoints    []arena.Location
	SupportCluster []arena.Location

	BootstrapTurns          int
	BootstrapWave           Wave
	CycleLength             int
	ConsolidateInterceptors int
	StrikeInterceptors      int
	Left                    Corner
	Right                   Corner

	trigger *Trigger
}

// Corner returns the geometry for a branch; anything but right is left.
func (p Profile) Corner(b Branch) Corner {
	if b == BranchRight {
		return p.Right
	}
	return p.Left
}

// Trigger returns the compiled bombardment condition.
func (p Profile) Trigger() *Trigger { return p.trigger }

func (p *Profile) compile() error {
	switch p.Kind {
	case KindTurtle, KindFunnel:
	default:
		return fmt.Errorf("profile %q: unknown kind %q", p.Name, p.Kind)
	}
	if p.LowHealthThreshold <= 0 || p.LowHealthThreshold > 1 {
		return fmt.Errorf("profile %q: low health threshold %v outside (0,1]", p.Name, p.LowHealthThreshold)
	}
	if p.CycleLength != 2 && p.CycleLength != 3 {
		return fmt.Errorf("profile %q: cycle length must be 2 or 3, got %d", p.Name, p.CycleLength)
	}
	switch p.Kind {
	case KindTurtle:
		if p.BombardFromX < p.BombardToX {
			return fmt.Errorf("profile %q: bombard line must run from high x to low x, got %d..%d", p.Name, p.BombardFromX, p.BombardToX)
		}
		if !arena.InBounds(p.BombardPoint) {
			return fmt.Errorf("profile %q: bombard point %v out of bounds", p.Name, p.BombardPoint)
		}
	case KindFunnel:
		for _, b := range []Branch{BranchLeft, BranchRight} {
			c := p.Corner(b)
			for _, loc := range []arena.Location{c.Wall, c.Turret, c.InterceptorPoint, c.LaunchPoint} {
				if !arena.InBounds(loc) {
					return fmt.Errorf("profile %q: %s corner cell %v out of bounds", p.Name, b, loc)
				}
			}
		}
	}
	if p.BombardWhen == "" {
		p.BombardWhen = DefaultBombardWhen
	}
	t, err := CompileTrigger(p.BombardWhen)
	if err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	p.trigger = t
	return nil
}

func mustCompile(p Profile) Profile {
	if err := p.compile(); err != nil {
		panic(err)
	}
	return p
}

func row(y, fromX, toX int) []arena.Location {
	locs := make([]arena.Location, 0, toX-fromX+1)
	for x := fromX; x <= toX; x++ {
		locs = append(locs, arena.Loc(x, y))
	}
	return locs
}

func locs(xys ...[2]int) []arena.Location {
	out := make([]arena.Location, len(xys))
	for i, xy := range xys {
		out[i] = arena.Loc(xy[0], xy[1])
	}
	return out
}

// TurtleProfile holds with interceptors for the first five turns, then
// bombards a dense front line or sends scouts on odd turns.
func TurtleProfile() Profile {
	walls := row(13, 0, 27)
	walls = append(walls, locs(
		[2]int{1, 12}, [2]int{2, 12}, [2]int{4, 12}, [2]int{5, 12},
	)...)
	walls = append(walls, row(12, 7, 20)...)
	walls = append(walls, locs([2]int{22, 12}, [2]int{23, 12}, [2]int{25, 12})...)

	return mustCompile(Profile{
		Name:               "turtle",
		Kind:               KindTurtle,
		LowHealthThreshold: 0.40,
		ReactiveTurrets:    true,
		Layout: Layout{
			Turrets:  locs([2]int{3, 12}, [2]int{24, 12}, [2]int{21, 12}, [2]int{6, 12}),
			Walls:    walls,
			Supports: locs([2]int{3, 11}, [2]int{6, 11}, [2]int{9, 11}, [2]int{18, 11}, [2]int{21, 11}, [2]int{24, 11}),
		},
		TurtleTurns:    5,
		FrontRows:      []int{14, 15},
		FrontThreshold: 8,
		BombardWhen:    DefaultBombardWhen,
		BombardRow:     11,
		BombardFromX:   27,
		BombardToX:     6,
		BombardPoint:   arena.Loc(24, 10),
		ScoutPoints:    locs([2]int{13, 0}, [2]int{14, 0}),
		SupportCluster: locs([2]int{13, 2}, [2]int{14, 2}, [2]int{13, 3}, [2]int{14, 3}),
		CycleLength:    2,
	})
}

// FunnelProfile opens a breach of known shape at one corner to funnel enemy
// units into interceptors, then strikes through a lane at the same corner.
func FunnelProfile() Profile {
	return mustCompile(Profile{
		Name:               "funnel",
		Kind:               KindFunnel,
		LowHealthThreshold: 0.40,
		Layout: Layout{
			Turrets:  locs([2]int{1, 12}, [2]int{26, 12}, [2]int{4, 12}, [2]int{23, 12}, [2]int{10, 12}, [2]int{17, 12}),
			Walls:    row(13, 0, 27),
			Supports: locs([2]int{13, 10}, [2]int{14, 10}),
		},

		BootstrapTurns:          2,
		BootstrapWave:           Wave{Unit: arena.Scout, Location: arena.Loc(13, 0), Count: 5},
		CycleLength:             2,
		ConsolidateInterceptors: 2,
		StrikeInterceptors:      1,
		Left: Corner{
			Wall:             arena.Loc(0, 13),
			Turret:           arena.Loc(1, 12),
			LaneGap:          locs([2]int{1, 13}, [2]int{2, 13}),
			LaneWalls:        row(11, 4, 9),
			InterceptorPoint: arena.Loc(3, 10),
			LaunchPoint:      arena.Loc(4, 9),
		},
		Right: Corner{
			Wall:             arena.Loc(27, 13),
			Turret:           arena.Loc(26, 12),
			LaneGap:          locs([2]int{25, 13}, [2]int{26, 13}),
			LaneWalls:        row(11, 18, 23),
			InterceptorPoint: arena.Loc(24, 10),
			LaunchPoint:      arena.Loc(23, 9),
		},
	})
}

// ProfileByName returns a built-in profile.
func ProfileByName(name string) (Profile, error) {
	switch Kind(name) {
	case KindTurtle, "":
		return TurtleProfile(), nil
	case KindFunnel:
		return FunnelProfile(), nil
	}
	return Profile{}, fmt.Errorf("unknown profile %q", name)
}

type point [2]int

func (p point) loc() arena.Location { return arena.Loc(p[0], p[1]) }

func points(ps []point) []arena.Location {
	out := make([]arena.Location, len(ps))
	for i, p := range ps {
		out[i] = p.loc()
	}
	return out
}

type layoutDoc struct {
	Turrets  []point `yaml:"turrets"`
	Walls    []point `yaml:"walls"`
	Supports []point `yaml:"supports"`
}

// cornerDoc overrides a corner field by field; unset fields keep the base.
type cornerDoc struct {
	Wall             *point  `yaml:"wall"`
	Turret           *point  `yaml:"turret"`
	LaneGap          []point `yaml:"lane_gap"`
	LaneWalls        []point `yaml:"lane_walls"`
	InterceptorPoint *point  `yaml:"interceptor_point"`
	LaunchPoint      *point  `yaml:"launch_point"`
}

func (d *cornerDoc) apply(c *Corner) {
	if d == nil {
		return
	}
	if d.Wall != nil {
		c.Wall = d.Wall.loc()
	}
	if d.Turret != nil {
		c.Turret = d.Turret.loc()
	}
	if d.LaneGap != nil {
		c.LaneGap = points(d.LaneGap)
	}
	if d.LaneWalls != nil {
		c.LaneWalls = points(d.LaneWalls)
	}
	if d.InterceptorPoint != nil {
		c.InterceptorPoint = d.InterceptorPoint.loc()
	}
	if d.LaunchPoint != nil {
		c.LaunchPoint = d.LaunchPoint.loc()
	}
}

type waveDoc struct {
	Unit  string `yaml:"unit"`
	At    point  `yaml:"at"`
	Count int    `yaml:"count"`
}

// profileDoc is the YAML form: a base profile plus overrides.
type profileDoc struct {
	Name                    string     `yaml:"name"`
	Base                    string     `yaml:"base"`
	LowHealthThreshold      *float64   `yaml:"low_health_threshold"`
	ReactiveTurrets         *bool      `yaml:"reactive_turrets"`
	Layout                  *layoutDoc `yaml:"layout"`
	TurtleTurns             *int       `yaml:"turtle_turns"`
	FrontRows               []int      `yaml:"front_rows"`
	FrontThreshold          *int       `yaml:"front_threshold"`
	BombardWhen             string     `yaml:"bombard_when"`
	BombardRow              *int       `yaml:"bombard_row"`
	BombardFromX            *int       `yaml:"bombard_from_x"`
	BombardToX              *int       `yaml:"bombard_to_x"`
	BombardPoint            *point     `yaml:"bombard_point"`
	ScoutPoints             []point    `yaml:"scout_points"`
	SupportCluster          []point    `yaml:"support_cluster"`
	BootstrapTurns          *int       `yaml:"bootstrap_turns"`
	BootstrapWave           *waveDoc   `yaml:"bootstrap_wave"`
	CycleLength             *int       `yaml:"cycle_length"`
	ConsolidateInterceptors *int       `yaml:"consolidate_interceptors"`
	StrikeInterceptors      *int       `yaml:"strike_interceptors"`
	Left                    *cornerDoc `yaml:"left"`
	Right                   *cornerDoc `yaml:"right"`
}

// LoadProfile reads a YAML profile file.
func LoadProfile(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	p, err := ParseProfile(raw)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes a YAML profile: the named base profile with every
// field the document sets replaced.
func ParseProfile(raw []byte) (Profile, error) {
	var doc profileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	p, err := ProfileByName(doc.Base)
	if err != nil {
		return Profile{}, err
	}
	if doc.Name != "" {
		p.Name = doc.Name
	}
	if doc.LowHealthThreshold != nil {
		p.LowHealthThreshold = *doc.LowHealthThreshold
	}
	if doc.ReactiveTurrets != nil {
		p.ReactiveTurrets = *doc.ReactiveTurrets
	}
	if doc.Layout != nil {
		p.Layout = Layout{
			Turrets:  points(doc.Layout.Turrets),
			Walls:    points(doc.Layout.Walls),
			Supports: points(doc.Layout.Supports),
		}
	}
	if doc.TurtleTurns != nil {
		p.TurtleTurns = *doc.TurtleTurns
	}
	if doc.FrontRows != nil {
		p.FrontRows = doc.FrontRows
	}
	if doc.FrontThreshold != nil {
		p.FrontThreshold = *doc.FrontThreshold
	}
	if doc.BombardWhen != "" {
		p.BombardWhen = doc.BombardWhen
	}
	if doc.BombardRow != nil {
		p.BombardRow = *doc.BombardRow
	}
	if doc.BombardFromX != nil {
		p.BombardFromX = *doc.BombardFromX
	}
	if doc.BombardToX != nil {
		p.BombardToX = *doc.BombardToX
	}
	if doc.BombardPoint != nil {
		p.BombardPoint = doc.BombardPoint.loc()
	}
	if doc.ScoutPoints != nil {
		p.ScoutPoints = points(doc.ScoutPoints)
	}
	if doc.SupportCluster != nil {
		p.SupportCluster = points(doc.SupportCluster)
	}
	if doc.BootstrapTurns != nil {
		p.BootstrapTurns = *doc.BootstrapTurns
	}
	if doc.BootstrapWave != nil {
		unit, err := arena.ParseUnitType(doc.BootstrapWave.Unit)
		if err != nil {
			return Profile{}, fmt.Errorf("bootstrap wave: %w", err)
		}
		p.BootstrapWave = Wave{Unit: unit, Location: doc.BootstrapWave.At.loc(), Count: doc.BootstrapWave.Count}
	}
	if doc.CycleLength != nil {
		p.CycleLength = *doc.CycleLength
	}
	if doc.ConsolidateInterceptors != nil {
		p.ConsolidateInterceptors = *doc.ConsolidateInterceptors
	}
	if doc.StrikeInterceptors != nil {
		p.StrikeInterceptors = *doc.StrikeInterceptors
	}
	doc.Left.apply(&p.Left)
	doc.Right.apply(&p.Right)
	if err := p.compile(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
