package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func decodeList(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var envelope struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestCatalogAPI_Chassis(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/catalog/api/v1/chassis", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, rec.Body.Bytes())
	require.Len(t, list, 1)
	require.Equal(t, "E450", list[0]["seriesCode"])

	rec = f.do(t, http.MethodGet, "/catalog/api/v1/chassis/"+testChassisID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "E-450 DRW", decodeData(t, rec)["modelDescription"])

	rec = f.do(t, http.MethodGet, "/catalog/api/v1/chassis/no-such-chassis", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogAPI_Bodies(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/catalog/api/v1/bodies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, rec.Body.Bytes())
	require.Len(t, list, 1)
	require.Equal(t, "SHTL-14", list[0]["configCode"])

	rec = f.do(t, http.MethodGet, "/catalog/api/v1/bodies/"+testBodyID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeData(t, rec)
	require.Equal(t, float64(14), body["passengerCapacity"])
}

func TestCatalogAPI_Options(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/catalog/api/v1/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, rec.Body.Bytes())
	require.Len(t, list, 1)

	rec = f.do(t, http.MethodGet, "/catalog/api/v1/options/"+testOptionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ADA Wheelchair Lift", decodeData(t, rec)["optionName"])
}

func TestCatalogAPI_MethodNotAllowed(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/catalog/api/v1/chassis", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCatalogAPI_PriceBookExport(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/catalog/api/v1/export/price-book", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "price_book_")

	// 工作簿可解析，两张工作表，数据行在表头之下
	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	require.Contains(t, book.GetSheetList(), "Chassis")
	require.Contains(t, book.GetSheetList(), "Options")

	series, err := book.GetCellValue("Chassis", "A2")
	require.NoError(t, err)
	require.Equal(t, "E450", series)

	optionCode, err := book.GetCellValue("Options", "A2")
	require.NoError(t, err)
	require.Equal(t, "LIFT-ADA", optionCode)
}
