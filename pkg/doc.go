// Package pkg provides the libraries behind tether, a connected overlay
// positioning engine.
//
// # Overview
//
// Tether places a floating pane (a menu, tooltip or popover) next to an
// origin. It tries a list of candidate positions in order and picks the
// first one that fits the viewport. When none fits it can shrink the pane,
// push it on screen, or fall back to the candidate that shows the most of
// it. The packages are:
//
//  1. [geom] - Rectangles, points and overflow arithmetic
//  2. [dom] - A minimal element tree with inline styles and a viewport
//  3. [position] - The connected position strategy itself
//  4. [scenario] - TOML/JSON placement scenarios, replay and cached reports
//  5. [cache] - File and Redis report caches
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Data Flow
//
//	scenario.toml
//	     ↓
//	[scenario] builds a [dom] document and a [position] strategy
//	     ↓
//	[position] measures, picks a candidate, writes styles
//	     ↓
//	Report (cached by [cache])
//
// # Quick Start
//
//	sc, err := scenario.Load("examples/menu.toml")
//	if err != nil {
//	    return err
//	}
//	res, err := scenario.NewRunner(nil, nil, nil).Run(ctx, sc, scenario.RunOptions{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Report.Final())
//
// [geom]: github.com/matzehuels/tether/pkg/geom
// [dom]: github.com/matzehuels/tether/pkg/dom
// [position]: github.com/matzehuels/tether/pkg/position
// [scenario]: github.com/matzehuels/tether/pkg/scenario
// [cache]: github.com/matzehuels/tether/pkg/cache
// [errors]: github.com/matzehuels/tether/pkg/errors
// [observability]: github.com/matzehuels/tether/pkg/observability
// [buildinfo]: github.com/matzehuels/tether/pkg/buildinfo
package pkg
