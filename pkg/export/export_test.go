package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"rank", "subject", "days"},
		Rows: []map[string]string{
			{"rank": "1", "subject": "Mạng máy tính", "days": "Thứ 2"},
			{"rank": "2", "subject": "Đồ họa", "days": "Chủ nhật"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Contains(t, string(out), "rank,subject,days\n1,Mạng máy tính,Thứ 2\n")

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Gợi ý lịch học")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(), "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Lịch học")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"rank", "subject", "days"}, rows[0])
	assert.Equal(t, "Đồ họa", rows[2][1])
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Thu Hai", Fold("Thứ Hai"))
	assert.Equal(t, "Do hoa", Fold("Đồ họa"))
	assert.Equal(t, "Chu nhat", Fold("Chủ nhật"))
}
