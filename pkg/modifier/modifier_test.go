package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/composeport/pkg/uitree"
)

// --- helpers ---

func directive(name string, args map[string]string) uitree.ModifierDirective {
	return uitree.ModifierDirective{Name: name, Args: args}
}

// --- Resolve ---

func TestResolve_Padding(t *testing.T) {
	w, ok := Resolve(directive("padding", map[string]string{"0": "16.dp"}))
	require.True(t, ok)
	assert.Equal(t, "Padding", w.Name)
	assert.Equal(t, "padding: EdgeInsets.all(16)", w.Args)
}

func TestResolve_PaddingSymmetric(t *testing.T) {
	w, _ := Resolve(directive("padding", map[string]string{"horizontal": "8.dp", "vertical": "4.dp"}))
	assert.Equal(t, "padding: EdgeInsets.symmetric(horizontal: 8, vertical: 4)", w.Args)
}

func TestResolve_Size(t *testing.T) {
	w, _ := Resolve(directive("size", map[string]string{"0": "48.dp"}))
	assert.Equal(t, "SizedBox", w.Name)
	assert.Equal(t, "width: 48, height: 48", w.Args)
}

func TestResolve_FillMax(t *testing.T) {
	w, _ := Resolve(directive("fillMaxWidth", nil))
	assert.Equal(t, "width: double.infinity", w.Args)

	w, _ = Resolve(directive("fillMaxSize", nil))
	assert.Equal(t, "SizedBox.expand", w.Name)
	assert.Equal(t, "", w.Args)
}

func TestResolve_Background(t *testing.T) {
	w, _ := Resolve(directive("background", map[string]string{"0": "Color.Red"}))
	assert.Equal(t, "DecoratedBox", w.Name)
	assert.Equal(t, "decoration: BoxDecoration(color: Colors.red)", w.Args)
}

func TestResolve_Clickable(t *testing.T) {
	w, _ := Resolve(directive("clickable", map[string]string{"0": "{ onTap() }"}))
	assert.Equal(t, "GestureDetector", w.Name)
	assert.Equal(t, "onTap: () => onTap()", w.Args)
}

func TestResolve_Clip(t *testing.T) {
	w, _ := Resolve(directive("clip", map[string]string{"0": "RoundedCornerShape(8.dp)"}))
	assert.Equal(t, "ClipRRect", w.Name)
	assert.Equal(t, "borderRadius: BorderRadius.circular(8)", w.Args)
}

func TestResolve_Weight(t *testing.T) {
	w, _ := Resolve(directive("weight", map[string]string{"0": "1f"}))
	assert.Equal(t, "Expanded", w.Name)
	assert.Equal(t, "flex: 1", w.Args)
}

func TestResolve_Align(t *testing.T) {
	w, _ := Resolve(directive("align", map[string]string{"0": "Alignment.TopStart"}))
	assert.Equal(t, "alignment: Alignment.topLeft", w.Args)
}

func TestResolve_Unknown(t *testing.T) {
	_, ok := Resolve(directive("shadow", nil))
	assert.False(t, ok)
	assert.False(t, Known("shadow"))
	assert.True(t, Known("padding"))
}

// --- Apply ---

func TestApply_FirstDirectiveInnermost(t *testing.T) {
	out := Apply([]uitree.ModifierDirective{
		directive("padding", map[string]string{"0": "16.dp"}),
		directive("clickable", map[string]string{"0": "onTap"}),
	}, "Text('x')")

	// padding was extracted first, so it hugs the child; clickable wraps it.
	assert.Equal(t,
		"GestureDetector(onTap: onTap, child: Padding(padding: EdgeInsets.all(16), child: Text('x')))",
		out)
}

func TestApply_UnknownDropped(t *testing.T) {
	out := Apply([]uitree.ModifierDirective{
		directive("shadow", nil),
		directive("alpha", map[string]string{"0": "0.5f"}),
	}, "Text('x')")
	assert.Equal(t, "Opacity(opacity: 0.5, child: Text('x'))", out)
}

func TestApply_Empty(t *testing.T) {
	assert.Equal(t, "Text('x')", Apply(nil, "Text('x')"))
}

func TestApply_ArglessWrapper(t *testing.T) {
	out := Apply([]uitree.ModifierDirective{directive("fillMaxSize", nil)}, "Text('x')")
	assert.Equal(t, "SizedBox.expand(child: Text('x'))", out)
}

// --- text helpers ---

func TestDimensionText(t *testing.T) {
	assert.Equal(t, "16", DimensionText("16.dp"))
	assert.Equal(t, "20", DimensionText("20.sp"))
	assert.Equal(t, "0.5", DimensionText("0.5f"))
	assert.Equal(t, "someVar", DimensionText("someVar"))
}

func TestColorText(t *testing.T) {
	assert.Equal(t, "Colors.blue", ColorText("Color.Blue"))
	assert.Equal(t, "Colors.grey", ColorText("Color.Gray"))
	assert.Equal(t, "Color(0xFF112233)", ColorText("Color(0xFF112233)"))
}

func TestAlignmentText(t *testing.T) {
	assert.Equal(t, "Alignment.bottomRight", AlignmentText("Alignment.BottomEnd"))
	assert.Equal(t, "customAlign", AlignmentText("customAlign"))
}

func TestCallbackText(t *testing.T) {
	assert.Equal(t, "() {}", CallbackText(""))
	assert.Equal(t, "() {}", CallbackText("{ }"))
	assert.Equal(t, "() => count++", CallbackText("{ count++ }"))
	assert.Equal(t, "() { a(); b(); }", CallbackText("{ a(); b() }"))
	assert.Equal(t, "onTap", CallbackText("onTap"))
}
