// Package testing provides an in-memory host and a harness for testing
// components rendered by the reconciler.
//
// # Quick Start
//
// Create a tester, render an element, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := fibertest.NewTesterWithT(t)
//	    tester.Render(element.Create(Counter, nil))
//
//	    // Simulate a click; handlers run at click priority
//	    tester.Click(fibertest.ByType("button"))
//
//	    if !tester.Find(fibertest.ByText("1")).Exists() {
//	        t.Error("expected count 1")
//	    }
//	}
//
// # Flushing
//
// Updates never commit synchronously. Render, Act and Click flush the
// scheduler until idle; Step runs microtasks and one task slice, which is
// how tests observe a render that yields.
//
// # Time Slicing
//
// The scheduler reads a FakeClock. A concurrent render yields once the
// clock has advanced by a frame interval since its slice started:
//
//	tester.Clock().Advance(10 * time.Millisecond)
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	FIBER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibertest "github.com/go-drift/fiber/pkg/testing"
package testing
