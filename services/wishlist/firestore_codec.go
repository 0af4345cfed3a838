package wishlist

import (
	"strconv"
	"strings"
	"time"

	"wishflix/models"
)

// Firestore REST wire types. Only the value kinds the wishlist documents use
// are modeled; anything else decodes as an absent value.

type fsValue struct {
	StringValue    *string  `json:"stringValue,omitempty"`
	IntegerValue   *string  `json:"integerValue,omitempty"`
	DoubleValue    *float64 `json:"doubleValue,omitempty"`
	BooleanValue   *bool    `json:"booleanValue,omitempty"`
	TimestampValue *string  `json:"timestampValue,omitempty"`
	NullValue      *string  `json:"nullValue,omitempty"`
}

type fsDocument struct {
	Name       string             `json:"name,omitempty"`
	Fields     map[string]fsValue `json:"fields,omitempty"`
	CreateTime string             `json:"createTime,omitempty"`
	UpdateTime string             `json:"updateTime,omitempty"`
}

type fsListResponse struct {
	Documents     []fsDocument `json:"documents"`
	NextPageToken string       `json:"nextPageToken"`
}

type fsFieldTransform struct {
	FieldPath        string `json:"fieldPath"`
	SetToServerValue string `json:"setToServerValue"`
}

type fsWrite struct {
	Update           *fsDocument        `json:"update,omitempty"`
	UpdateTransforms []fsFieldTransform `json:"updateTransforms,omitempty"`
}

type fsCommitRequest struct {
	Writes []fsWrite `json:"writes"`
}

func stringValue(s string) fsValue {
	return fsValue{StringValue: &s}
}

func integerValue(i int64) fsValue {
	s := strconv.FormatInt(i, 10)
	return fsValue{IntegerValue: &s}
}

func nullValue() fsValue {
	null := "NULL_VALUE"
	return fsValue{NullValue: &null}
}

func encodeEntryFields(entry models.WishlistEntry) map[string]fsValue {
	fields := map[string]fsValue{
		"movieId": integerValue(entry.MovieID),
		"title":   stringValue(entry.Title),
	}
	if entry.PosterPath != nil {
		fields["posterPath"] = stringValue(*entry.PosterPath)
	} else {
		fields["posterPath"] = nullValue()
	}
	return fields
}

// movieID resolves the entry key the way the clients do: the movieId field
// when present, otherwise the numeric document id.
func (d fsDocument) movieID() (int64, bool) {
	if v, ok := d.Fields["movieId"]; ok && v.IntegerValue != nil {
		if id, err := strconv.ParseInt(*v.IntegerValue, 10, 64); err == nil && id > 0 {
			return id, true
		}
	}
	if idx := strings.LastIndex(d.Name, "/"); idx >= 0 {
		if id, err := strconv.ParseInt(d.Name[idx+1:], 10, 64); err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

// entry decodes a document into a wishlist entry. Documents without a
// resolvable movie id are skipped rather than failing the whole read.
func (d fsDocument) entry() (models.WishlistEntry, bool) {
	id, ok := d.movieID()
	if !ok {
		return models.WishlistEntry{}, false
	}

	entry := models.WishlistEntry{MovieID: id}

	if v, ok := d.Fields["title"]; ok && v.StringValue != nil {
		entry.Title = *v.StringValue
	}
	if v, ok := d.Fields["posterPath"]; ok && v.StringValue != nil {
		poster := *v.StringValue
		entry.PosterPath = &poster
	}
	if v, ok := d.Fields["addedAt"]; ok && v.TimestampValue != nil {
		if t, err := time.Parse(time.RFC3339Nano, *v.TimestampValue); err == nil {
			entry.AddedAt = t
		}
	}
	return entry, true
}
