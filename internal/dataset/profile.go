package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/ppiankov/tweetprep/internal/model"
)

// Profile reports type, unique count and null count per column
func Profile(t *Table) (model.Profile, error) {
	p := model.Profile{Name: t.Name, Rows: len(t.Records)}
	if len(t.Header) == 0 {
		return p, nil
	}

	records := make([][]string, 0, len(t.Records)+1)
	records = append(records, t.Header)
	records = append(records, t.Records...)

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues([]string{"", "NA", "NaN", "<nil>"}),
	)
	if df.Err != nil {
		return p, fmt.Errorf("load %s frame: %w", t.Name, df.Err)
	}

	types := df.Types()
	for i, name := range df.Names() {
		col := df.Col(name)
		nulls := 0
		for _, isNaN := range col.IsNaN() {
			if isNaN {
				nulls++
			}
		}
		unique := make(map[string]struct{})
		for _, v := range col.Records() {
			unique[v] = struct{}{}
		}
		p.Columns = append(p.Columns, model.ColumnProfile{
			Name:   name,
			Type:   string(types[i]),
			Unique: len(unique),
			Nulls:  nulls,
		})
	}
	return p, nil
}
