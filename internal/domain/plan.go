package domain

import (
	"fmt"
	"path"
	"strings"

	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// manifestSnippetIndent is the indent of properties inside the rendered
// hidden_api block (two Android.bp levels).
const manifestSnippetIndent = "        "

// AppendManifestChange renders all accumulated property changes into a
// single hidden_api snippet and appends one FileChange for the fragment's
// Android.bp file describing where to merge it. It does nothing when there
// are no property changes.
func AppendManifestChange(result *m.Result, bcpf, bcpfDir string) {
	if len(result.PropertyChanges) == 0 {
		return
	}

	var snippet strings.Builder
	for _, change := range result.PropertyChanges {
		snippet.WriteString(change.Snippet(manifestSnippetIndent))
	}

	body := strings.Trim(snippet.String(), "\n")

	description := fmt.Sprintf(`
Add the following snippet into the %s bootclasspath_fragment module in the
%s/Android.bp file. If the hidden_api block already exists then merge these
properties into it.

    hidden_api: {
%s
    },
`, bcpf, bcpfDir, body)

	result.FileChanges = append(result.FileChanges, m.FileChange{
		Path:        path.Join(bcpfDir, "Android.bp"),
		Description: description,
	})
}
