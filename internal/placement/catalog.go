package placement

// FixtureSpec describes one fixture kind: its default footprint, the order
// the auto-layout places it in, and whether it belongs to the stage family
// (stage-family fixtures anchor the top of the hall).
type FixtureSpec struct {
	Kind     string
	Width    float64
	Height   float64
	Priority int
	Stage    bool
}

var catalog = []FixtureSpec{
	{Kind: "stage_main", Width: 1400, Height: 240, Priority: 0, Stage: true},
	{Kind: "stage", Width: 1200, Height: 200, Priority: 1, Stage: true},
	{Kind: "stage_small", Width: 820, Height: 170, Priority: 2, Stage: true},
	{Kind: "orchestra_stage", Width: 1000, Height: 210, Priority: 3, Stage: true},
	{Kind: "podium", Width: 320, Height: 180, Priority: 4, Stage: true},
	{Kind: "sound_booth", Width: 320, Height: 160, Priority: 5},
	{Kind: "screens", Width: 640, Height: 140, Priority: 6},
	{Kind: "amplification", Width: 280, Height: 140, Priority: 6},
	{Kind: "production_area", Width: 520, Height: 240, Priority: 7},
	{Kind: "donation_booth", Width: 320, Height: 140, Priority: 7},
	{Kind: "entrance", Width: 60, Height: 140, Priority: 8},
	{Kind: "exit", Width: 60, Height: 140, Priority: 8},
	{Kind: "kitchen", Width: 480, Height: 260, Priority: 9},
	{Kind: "restroom", Width: 360, Height: 220, Priority: 9},
}

var byKind = func() map[string]FixtureSpec {
	m := make(map[string]FixtureSpec, len(catalog))
	for _, s := range catalog {
		m[s.Kind] = s
	}
	return m
}()

// Spec returns the catalog entry for a kind, ok=false for unknown kinds.
func Spec(kind string) (FixtureSpec, bool) {
	s, ok := byKind[kind]
	return s, ok
}

// Kinds lists the catalog in placement order.
func Kinds() []FixtureSpec {
	out := make([]FixtureSpec, len(catalog))
	copy(out, catalog)
	return out
}
