package models

import (
	"errors"
	"testing"
)

func TestParsePoint(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    GeoPoint
		wantErr error
	}{
		{name: "geojson", raw: `{"type":"Point","coordinates":[36.8,-1.28]}`, want: NewPoint(36.8, -1.28)},
		{name: "lng lat", raw: `{"lng":10,"lat":20}`, want: NewPoint(10, 20)},
		{name: "string wrapped", raw: `"{\"type\":\"Point\",\"coordinates\":[1,2]}"`, want: NewPoint(1, 2)},
		{name: "boundaries", raw: `{"type":"Point","coordinates":[-180,90]}`, want: NewPoint(-180, 90)},
		{name: "longitude out of range", raw: `{"lng":200,"lat":10}`, wantErr: ErrLocationRange},
		{name: "latitude out of range", raw: `{"type":"Point","coordinates":[0,-91]}`, wantErr: ErrLocationRange},
		{name: "wrong type", raw: `{"type":"Polygon","coordinates":[0,0]}`, wantErr: ErrLocationFormat},
		{name: "three coordinates", raw: `{"type":"Point","coordinates":[0,0,0]}`, wantErr: ErrLocationFormat},
		{name: "string coordinates", raw: `{"type":"Point","coordinates":["1","2"]}`, wantErr: ErrLocationFormat},
		{name: "missing lat", raw: `{"lng":1}`, wantErr: ErrLocationFormat},
		{name: "not json", raw: `Nairobi CBD`, wantErr: ErrLocationFormat},
		{name: "empty", raw: ``, wantErr: ErrLocationMissing},
		{name: "null", raw: `null`, wantErr: ErrLocationMissing},
		{name: "empty string", raw: `""`, wantErr: ErrLocationMissing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePoint([]byte(tc.raw))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
