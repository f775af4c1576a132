package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"outlet-sales/storage"
)

const csvHeader = "Item_Identifier,Item_Weight,Item_Fat_Content,Item_Visibility,Item_Type,Item_MRP," +
	"Outlet_Identifier,Outlet_Establishment_Year,Outlet_Size,Outlet_Location_Type,Outlet_Type,Item_Outlet_Sales"

func writeTrainCSV(t *testing.T, dir string, n int) string {
	t.Helper()
	outlets := []struct {
		cols   string
		effect float64
	}{
		{"OUT049,1999,Medium,Tier 1,Supermarket Type1", 400},
		{"OUT018,2009,Medium,Tier 3,Supermarket Type2", 150},
		{"OUT010,1998,,Tier 3,Grocery Store", -300},
	}
	fat := []string{"Low Fat", "LF", "Regular", "reg"}

	var b strings.Builder
	b.WriteString(csvHeader + "\n")
	for i := 0; i < n; i++ {
		o := outlets[i%len(outlets)]
		mrp := 40 + 4.5*float64(i)
		weight := fmt.Sprintf("%.2f", 6+float64(i%9))
		if i%6 == 5 {
			weight = ""
		}
		fmt.Fprintf(&b, "FD%03d,%s,%s,%.3f,Dairy,%.4f,%s,%.4f\n",
			i, weight, fat[i%len(fat)], 0.01*float64(i%4), mrp, o.cols, 11*mrp+o.effect)
	}

	path := filepath.Join(dir, "Train.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db-driver", "sqlite", "--db-dsn", dsn, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLIEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := "file:" + filepath.Join(dir, "sales.db")
	csvPath := writeTrainCSV(t, dir, 36)

	_, err := run(t, dsn, "predict")
	assert.ErrorIs(t, err, storage.ErrNoArtifact)

	out, err := run(t, dsn, "load", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 36 rows")

	out, err = run(t, dsn, "train", "--test-size", "0.25", "--seed", "3", "--ridge", "1e-6")
	require.NoError(t, err)
	assert.Contains(t, out, "Train rows : 27")
	assert.Contains(t, out, "Test rows  : 9")

	out, err = run(t, dsn, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "Item_MRP")
	assert.Contains(t, out, "Outlet_Type_Supermarket Type1")

	out, err = run(t, dsn, "predict")
	require.NoError(t, err)
	assert.Contains(t, out, "Rows predicted         : \033[1m36")

	out, err = run(t, dsn, "predict-one", "--id", "2", "--mrp", "150", "--outlet-type", "Hypermarket", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Prediction for FD001 @ OUT018")
	assert.Contains(t, out, "Outlet type    : Hypermarket")

	out, err = run(t, dsn, "history", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "FD001")

	xlsxPath := filepath.Join(dir, "out", "predictions.xlsx")
	out, err = run(t, dsn, "export", "--out", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 37 predictions")

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(storage.PredictionSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 38)

	csvOut := filepath.Join(dir, "predictions.csv")
	_, err = run(t, dsn, "export", "--out", csvOut)
	require.NoError(t, err)
	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	assert.Equal(t, 38, strings.Count(string(data), "\n"))
}

func TestCLIRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := "file:" + filepath.Join(dir, "sales.db")

	_, err := run(t, dsn, "predict-one", "--id", "1", "--random")
	assert.Error(t, err)

	_, err = run(t, dsn, "load", "--csv", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	root := NewRootCmd()
	root.SetArgs([]string{"--db-driver", "oracle", "history"})
	root.SetOut(&bytes.Buffer{})
	assert.Error(t, root.ExecuteContext(context.Background()))
}
