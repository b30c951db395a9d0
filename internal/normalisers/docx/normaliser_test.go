package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	// Add word/document.xml
	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestExtensions(t *testing.T) {
	normaliser := New()
	assert.Equal(t, []string{".docx"}, normaliser.Extensions())
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Annual leave accrues at two days per month.</w:t></w:r></w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := normaliser.Normalise(ctx, content)
	require.NoError(t, err)
	assert.Equal(t, "Annual leave accrues at two days per month.", text)
}

func TestNormalise_EmptyInput(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	text, err := normaliser.Normalise(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, text)
}

func TestNormalise_InvalidZip(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	text, err := normaliser.Normalise(ctx, []byte("not a zip file"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, text)
}

func TestNormalise_MultipleParagraphs(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Third paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := normaliser.Normalise(ctx, content)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond paragraph\nThird paragraph", text)
}

func TestNormalise_MultipleRuns(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	// Multiple runs in a single paragraph (e.g. different formatting)
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p>
<w:r><w:t>Hello </w:t></w:r>
<w:r><w:t>World</w:t></w:r>
</w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := normaliser.Normalise(ctx, content)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
}

func TestNormalise_TableContent(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Leave entitlements</w:t></w:r></w:p>
<w:tbl>
<w:tr>
<w:tc><w:p><w:r><w:t>Tenure</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>Days</w:t></w:r></w:p></w:tc>
</w:tr>
<w:tr>
<w:tc><w:p><w:r><w:t>Under 5 years</w:t></w:r></w:p></w:tc>
<w:tc><w:p><w:r><w:t>20</w:t></w:r></w:p></w:tc>
</w:tr>
</w:tbl>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := normaliser.Normalise(ctx, content)
	require.NoError(t, err)
	assert.Contains(t, text, "Leave entitlements")
	assert.Contains(t, text, "Tenure | Days")
	assert.Contains(t, text, "Under 5 years | 20")
}

func TestNormalise_EmptyDocument(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	text, err := normaliser.Normalise(ctx, content)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestNormalise_MissingDocumentXML(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	content := createTestDOCX("")

	text, err := normaliser.Normalise(ctx, content)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func BenchmarkNormalise(b *testing.B) {
	normaliser := New()
	ctx := context.Background()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
</w:body>
</w:document>`

	content := createTestDOCX(docXML)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = normaliser.Normalise(ctx, content)
	}
}
