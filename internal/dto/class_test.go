package dto

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-admin/internal/validation"
)

func newValidator() *validator.Validate {
	v := validation.New()
	v.RegisterStructValidation(validation.TimeOrder, ClassCreateRequest{}, ClassPatchView{})
	return v
}

func decodeCreate(t *testing.T, body string) ClassCreateRequest {
	t.Helper()
	var req ClassCreateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	req.Normalize()
	return req
}

func TestClassCreateValid(t *testing.T) {
	req := decodeCreate(t, `{"title":" Algorithms ","code":"CS101","section_id":"1","day":2,"start":"09:00","end":"10:30"}`)

	require.NoError(t, newValidator().Struct(req))
	model := req.Model()
	assert.Equal(t, "Algorithms", model.Title)
	assert.Equal(t, int64(1), model.SectionID)
	require.NotNil(t, model.Day)
	assert.Equal(t, 2, *model.Day)
	assert.Nil(t, model.Units)
}

func TestClassCreateStartAfterEnd(t *testing.T) {
	req := decodeCreate(t, `{"title":"Algorithms","code":"CS101","section_id":1,"day":2,"start":"10:30","end":"09:00"}`)

	issues := validation.Issues(newValidator().Struct(req))
	require.Len(t, issues, 1)
	assert.Equal(t, "end", issues[0].Path)
	assert.Equal(t, "Start must be before end", issues[0].Message)
}

func TestClassCreateEqualTimesRejected(t *testing.T) {
	req := decodeCreate(t, `{"title":"A","code":"B","section_id":1,"start":"09:00","end":"09:00"}`)

	issues := validation.Issues(newValidator().Struct(req))
	require.Len(t, issues, 1)
	assert.Equal(t, "end", issues[0].Path)
}

func TestClassCreateFieldIssues(t *testing.T) {
	req := decodeCreate(t, `{"title":"  ","code":"CS101","section_id":0,"day":9,"start":"24:00","end":"7:00","units":13}`)

	issues := validation.Issues(newValidator().Struct(req))
	byPath := map[string]string{}
	for _, is := range issues {
		byPath[is.Path] = is.Message
	}
	assert.Equal(t, "Title is required", byPath["title"])
	assert.Equal(t, "Section id must be > 0", byPath["section_id"])
	assert.Equal(t, "Day must be at most 7", byPath["day"])
	assert.Equal(t, "Start must be HH:MM", byPath["start"])
	assert.Equal(t, "End must be HH:MM", byPath["end"])
	assert.Equal(t, "Units must be at most 12", byPath["units"])
}

func TestWeekdayNames(t *testing.T) {
	var req ClassCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"day":"Wed"}`), &req))
	require.NotNil(t, req.Day)
	assert.Equal(t, Weekday(3), *req.Day)

	err := json.Unmarshal([]byte(`{"day":"someday"}`), &req)
	require.Error(t, err)
	issues := validation.Issues(err)
	require.Len(t, issues, 1)
	assert.Equal(t, "day", issues[0].Path)
}

func TestFlexIntRejectsGarbage(t *testing.T) {
	var req ClassCreateRequest
	err := json.Unmarshal([]byte(`{"section_id":"abc"}`), &req)
	require.Error(t, err)
	assert.Equal(t, "section_id", validation.Issues(err)[0].Path)
}

func TestClassPatchEmpty(t *testing.T) {
	var req ClassPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"unknown":1}`), &req))
	assert.True(t, req.Empty())
}

func TestClassPatchNullsAndChanges(t *testing.T) {
	var req ClassPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"room":null,"title":" Data ","units":"3","day":null}`), &req))
	req.Normalize()

	assert.False(t, req.Empty())
	assert.Empty(t, req.NullIssues())
	require.NoError(t, newValidator().Struct(req.View()))

	changes := req.Changes()
	require.Len(t, changes, 4)
	assert.Equal(t, "title", changes[0].Column)
	assert.Equal(t, "Data", changes[0].Value)
	assert.Equal(t, "day", changes[1].Column)
	assert.Nil(t, changes[1].Value)
	assert.Equal(t, "units", changes[2].Column)
	assert.Equal(t, 3, changes[2].Value)
	assert.Equal(t, "room", changes[3].Column)
	assert.Nil(t, changes[3].Value)
}

func TestClassPatchRequiredNull(t *testing.T) {
	var req ClassPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":null}`), &req))

	issues := req.NullIssues()
	require.Len(t, issues, 1)
	assert.Equal(t, "title", issues[0].Path)
}

func TestClassPatchTimeOrderOnlyWhenBothPresent(t *testing.T) {
	v := newValidator()

	var onlyStart ClassPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"start":"23:00"}`), &onlyStart))
	assert.NoError(t, v.Struct(onlyStart.View()))

	var both ClassPatchRequest
	require.NoError(t, json.Unmarshal([]byte(`{"start":"12:00","end":"11:00"}`), &both))
	issues := validation.Issues(v.Struct(both.View()))
	require.Len(t, issues, 1)
	assert.Equal(t, "end", issues[0].Path)
}

func TestSectionInput(t *testing.T) {
	v := newValidator()
	in := SectionInput{Code: "   "}
	in.Normalize()
	issues := validation.Issues(v.Struct(in))
	require.Len(t, issues, 1)
	assert.Equal(t, "Code is required", issues[0].Message)

	long := SectionInput{Code: "ABCDEFGHIJABCDEFGHIJABCDEFGHIJABCDEFGHIJX"}
	assert.Equal(t, "Max 40 chars", validation.Issues(v.Struct(long))[0].Message)
}
