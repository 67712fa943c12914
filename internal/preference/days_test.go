package preference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

func TestDayParserParse(t *testing.T) {
	parser := NewDayParser(nil)

	cases := []struct {
		name  string
		input string
		want  models.WeekdaySet
	}{
		{"shared prefix list", "thứ 2,3,4", models.WeekdaySet{models.Monday, models.Tuesday, models.Wednesday}},
		{"short prefix", "t2, t5", models.WeekdaySet{models.Monday, models.Thursday}},
		{"short prefix list", "T2,3", models.WeekdaySet{models.Monday, models.Tuesday}},
		{"sunday name", "chủ nhật", models.WeekdaySet{models.Sunday}},
		{"sunday abbreviation", "cn", models.WeekdaySet{models.Sunday}},
		{"code eight", "thứ 8", models.WeekdaySet{models.Sunday}},
		{"number word", "thứ bảy và chủ nhật", models.WeekdaySet{models.Saturday, models.Sunday}},
		{"range with dash", "thứ 2 - thứ 4", models.WeekdaySet{models.Monday, models.Tuesday, models.Wednesday}},
		{"range with word", "thứ 5 đến 7", models.WeekdaySet{models.Thursday, models.Friday, models.Saturday}},
		{"bare numbers", "2, 3, 8", models.WeekdaySet{models.Monday, models.Tuesday, models.Sunday}},
		{"english", "monday, friday", models.WeekdaySet{models.Monday, models.Friday}},
		{"duplicates collapse", "thứ 3, thứ 3, t3", models.WeekdaySet{models.Tuesday}},
		{"sentence", "mình muốn nghỉ thứ 7 nhé", models.WeekdaySet{models.Saturday}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parser.Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDayParserIgnoresClockNumbers(t *testing.T) {
	parser := NewDayParser(nil)

	got, err := parser.Parse("thứ 2 sau 5h")
	require.NoError(t, err)
	assert.Equal(t, models.WeekdaySet{models.Monday}, got)
}

func TestDayParserErrors(t *testing.T) {
	parser := NewDayParser(nil)

	for _, input := range []string{"", "không biết", "thứ 9", "học buổi sáng"} {
		_, err := parser.Parse(input)
		require.Error(t, err, input)
		var perr *ParseError
		require.True(t, errors.As(err, &perr), input)
		assert.Equal(t, models.DimensionDays, perr.Dimension)
		assert.NotEmpty(t, perr.Guidance)
		assert.True(t, errors.Is(err, ErrUnrecognized))
	}
}

func TestRenderDaysRoundTrip(t *testing.T) {
	parser := NewDayParser(nil)

	for _, input := range []string{"thứ 2,3,4", "chủ nhật", "t7, cn", "thứ 2 - thứ 6", "3, 5"} {
		first, err := parser.Parse(input)
		require.NoError(t, err)

		rendered := RenderDays(first)
		second, err := parser.Parse(rendered)
		require.NoError(t, err, rendered)
		assert.Equal(t, first, second, rendered)
	}
}

func TestRenderDaysCanonicalForm(t *testing.T) {
	assert.Equal(t, "thứ 2,4, chủ nhật", RenderDays(models.WeekdaySet{models.Sunday, models.Wednesday, models.Monday}))
	assert.Equal(t, "", RenderDays(nil))
}
