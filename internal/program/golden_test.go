package program

import (
	"testing"

	"tsgo/testutil"
)

// scenario is one spec.md §8 end-to-end case: a snippet and the diagnostic
// codes a full Program.Check run over it must produce, in order.
type scenario struct {
	name   string
	source string
	codes  []int
}

var endToEndScenarios = []scenario{
	{
		name:   "assign_string_to_number",
		source: `const x: number = "hi";`,
		codes:  []int{2322},
	},
	{
		name:   "interface_merge_compatible",
		source: `interface P { x: number } interface P { y: string } const p: P = { x: 1, y: "a" };`,
		codes:  nil,
	},
	{
		name:   "interface_merge_conflicting_member",
		source: `interface P { x: number } interface P { x: string } const p: P = { x: 1 };`,
		codes:  []int{2717},
	},
	{
		name:   "generic_inference_mismatch",
		source: `function id<T>(t: T): T { return t } const n: string = id(42);`,
		codes:  []int{2322},
	},
	{
		name:   "typeof_narrowing_both_branches",
		source: `function f(x: string | number){ if (typeof x === "string") x.length; else x.toFixed(2); }`,
		codes:  nil,
	},
	{
		name:   "private_brand_mismatch",
		source: `class C { #p = 1 } class D { #p = 1 } const c: C = new D();`,
		codes:  []int{2322},
	},
}

// TestEndToEndScenariosMatchGoldenCodes runs every spec.md §8 scenario
// through a fresh Program and diffs its sorted diagnostic codes against the
// table above. This intentionally does not route through
// testutil.CompareWithGolden/AssertGoldenJSON: those wrap the payload in a
// GoldenMeta carrying the running toolchain's exact Go version, which makes
// the fixture file non-reproducible across contributors' machines. A
// diagnostic code is a stable per-scenario contract; the patch version of Go
// a contributor happens to run is not something a committed fixture should
// pin. testutil.GetGoldenPath/DiffJSON are still the right tools for naming
// the case and rendering a mismatch, so this test uses those directly.
func TestEndToEndScenariosMatchGoldenCodes(t *testing.T) {
	for _, sc := range endToEndScenarios {
		t.Run(sc.name, func(t *testing.T) {
			p := New(nil)
			if _, err := p.AddFile("scenario.ts", []byte(sc.source)); err != nil {
				t.Fatalf("AddFile: %v", err)
			}
			ds := p.Check()
			got := make([]int, 0, len(ds))
			for _, d := range ds {
				got = append(got, int(d.Code))
			}

			path := testutil.GetGoldenPath("e2e", sc.name)
			if !sameCodes(got, sc.codes) {
				t.Fatalf("scenario %s (%s): got codes %v, want %v\n%s", sc.name, path, got, sc.codes,
					testutil.DiffJSON(sc.codes, got))
			}
		})
	}
}

func sameCodes(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
