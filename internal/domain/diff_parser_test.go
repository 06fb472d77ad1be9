package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuild/analyze-bcpf/internal/adapter"
	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

const testFragmentDir = "art/build/boot/art-bootclasspath-fragment"

func newTestParser() *ReportParser {
	return NewReportParser(testFragmentDir)
}

func scanLines(t *testing.T, lines []string) (m.FlagDiffs, error) {
	t.Helper()

	return newTestParser().Scan(adapter.NewStaticLineStream(lines))
}

func significantHeader() []string {
	return []string{
		InconsistentFlagsMarker,
		"< out/soong/.intermediates/" + testFragmentDir + "/android_common_apex10000/modular-hiddenapi/filtered-flags.csv",
		"> out/soong/hiddenapi/hiddenapi-flags.csv",
		"",
	}
}

func otherModuleHeader() []string {
	return []string{
		InconsistentFlagsMarker,
		"< out/soong/.intermediates/com.android.other/other-bootclasspath-fragment/modular-hiddenapi/filtered-flags.csv",
		"> out/soong/hiddenapi/hiddenapi-flags.csv",
		"",
	}
}

func TestScan_NoReportSections(t *testing.T) {
	diffs, err := scanLines(t, []string{
		"[100% 1/1] build out/soong/hiddenapi/hiddenapi-flags.csv",
		"#### build completed successfully ####",
	})

	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestScan_EmptyStream(t *testing.T) {
	diffs, err := scanLines(t, nil)

	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestScan_SingleSignificantSection(t *testing.T) {
	lines := append(significantHeader(),
		"< Landroid/compat/Compatibility;->clearOverrides()V",
		"> Landroid/compat/Compatibility;->clearOverrides()V,core-platform-api",
		"",
		"< Lart/Foo;->bar()V,unsupported,max-target-o",
		"> Lart/Foo;->bar()V,max-target-o,unsupported,blocked",
		"",
	)

	diffs, err := scanLines(t, lines)
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	entry := diffs["Landroid/compat/Compatibility;->clearOverrides()V"]
	assert.Empty(t, entry.ModuleFlags)
	assert.Equal(t, m.FlagSet{"core-platform-api"}, entry.MonolithicFlags)

	// Flag order is preserved verbatim from the input.
	entry = diffs["Lart/Foo;->bar()V"]
	assert.Equal(t, m.FlagSet{"unsupported", "max-target-o"}, entry.ModuleFlags)
	assert.Equal(t, m.FlagSet{"max-target-o", "unsupported", "blocked"}, entry.MonolithicFlags)
}

func TestScan_SectionEndsAtStreamEnd(t *testing.T) {
	// The last triple's separator is missing because the stream ends.
	lines := append(significantHeader(),
		"< Lart/Foo;->bar()V,unsupported",
		"> Lart/Foo;->bar()V,blocked",
	)

	diffs, err := scanLines(t, lines)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
}

func TestScan_OtherModuleSectionIsFiltered(t *testing.T) {
	lines := append(otherModuleHeader(),
		"< Lother/Thing;->baz()V,unsupported",
		"> Lother/Thing;->baz()V,blocked",
		"",
	)

	diffs, err := scanLines(t, lines)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestScan_FilteredSectionDoesNotStopParsing(t *testing.T) {
	lines := append(otherModuleHeader(),
		"< Lother/Thing;->baz()V,unsupported",
		"> Lother/Thing;->baz()V,blocked",
		// Non-blank separator: the marker starts the next section.
	)
	lines = append(lines, significantHeader()...)
	lines = append(lines,
		"< Lart/Foo;->bar()V,unsupported",
		"> Lart/Foo;->bar()V,blocked",
		"",
	)

	diffs, err := scanLines(t, lines)
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	_, ok := diffs["Lart/Foo;->bar()V"]
	assert.True(t, ok)

	_, ok = diffs["Lother/Thing;->baz()V"]
	assert.False(t, ok)
}

func TestScan_BackToBackSignificantSections(t *testing.T) {
	lines := append(significantHeader(),
		"< Lart/Foo;->bar()V,unsupported",
		"> Lart/Foo;->bar()V,blocked",
	)
	lines = append(lines, significantHeader()...)
	lines = append(lines,
		"< Lart/Baz;->qux()V,max-target-r",
		"> Lart/Baz;->qux()V,blocked",
		"",
	)

	diffs, err := scanLines(t, lines)
	require.NoError(t, err)
	assert.Len(t, diffs, 2)
}

func TestScan_DuplicateSignatureLastWriteWins(t *testing.T) {
	lines := append(significantHeader(),
		"< Lart/Foo;->bar()V,unsupported",
		"> Lart/Foo;->bar()V,blocked",
	)
	lines = append(lines, significantHeader()...)
	lines = append(lines,
		"< Lart/Foo;->bar()V,max-target-r",
		"> Lart/Foo;->bar()V,blocked",
		"",
	)

	diffs, err := scanLines(t, lines)
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	assert.Equal(t, m.FlagSet{"max-target-r"}, diffs["Lart/Foo;->bar()V"].ModuleFlags)
}

func TestScan_MalformedMonolithicLine(t *testing.T) {
	lines := append(significantHeader(),
		"< Lart/Foo;->bar()V,unsupported",
		"Lart/Foo;->bar()V,blocked", // missing "> " prefix
		"",
	)

	_, err := scanLines(t, lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReport)
}

func TestScan_MalformedModuleLine(t *testing.T) {
	lines := append(significantHeader(),
		"* Lart/Foo;->bar()V,unsupported",
		"> Lart/Foo;->bar()V,blocked",
		"",
	)

	_, err := scanLines(t, lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReport)
}

func TestScan_MalformedHeader(t *testing.T) {
	lines := []string{
		InconsistentFlagsMarker,
		"< out/soong/.intermediates/" + testFragmentDir + "/filtered-flags.csv",
		"> out/soong/hiddenapi/hiddenapi-flags.csv",
		"unexpected non-blank separator that is not a marker",
		"",
	}

	_, err := scanLines(t, lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReport)
}

func TestScan_MismatchedSignatures(t *testing.T) {
	lines := append(significantHeader(),
		"< Lart/Foo;->bar()V,unsupported",
		"> Lart/Other;->bar()V,blocked",
		"",
	)

	_, err := scanLines(t, lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestScan_TruncatedTriple(t *testing.T) {
	lines := append(significantHeader(),
		"< Lart/Foo;->bar()V,unsupported",
		// Stream ends before the monolithic line arrives.
	)

	_, err := scanLines(t, lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedReport)
}

func TestScan_MarkerWithNoHeader(t *testing.T) {
	_, err := scanLines(t, []string{InconsistentFlagsMarker})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedReport)
}

func TestTripleCursor(t *testing.T) {
	cursor := &tripleCursor{stream: adapter.NewStaticLineStream([]string{
		"< a", "> b", "",
		"< c", "> d", "end",
	})}

	triple, ok, err := cursor.next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, reportTriple{module: "< a", monolithic: "> b", separator: ""}, triple)

	triple, ok, err = cursor.next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "end", triple.separator)

	_, ok, err = cursor.next()
	require.NoError(t, err)
	assert.False(t, ok)
}
