package oss

import (
	"bytes"
	"encoding/json"
)

// flexString accepts JSON strings and numbers. The OSS API is not consistent about
// which one it sends for ids and statuses.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	OSSURL     string `json:"ossUrl"`
	GrowattURL string `json:"growattUrl"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// searchResponse is the reply of oss/searchInverter.
type searchResponse struct {
	Result *int    `json:"result"`
	Msg    string  `json:"msg"`
	Obj    objData `json:"obj"`
}

type objData struct {
	Count int          `json:"count"`
	Datas []deviceData `json:"datas"`
}

type deviceData struct {
	SN          string     `json:"sn"`
	DeviceModel string     `json:"deviceModel"`
	DeviceType  flexString `json:"deviceType"`
	Status      flexString `json:"status"`
	PlantID     flexString `json:"plantId"`
	AccountName string     `json:"accountName"`
	PlantName   string     `json:"plantName"`
	DatalogSN   string     `json:"datalogSn"`
}

// activeResponse is the reply of oss/getActiveEquipaments.
type activeResponse struct {
	Data []activeEquipment `json:"data"`
}

type activeEquipment struct {
	SerialNumber string     `json:"serialNumber"`
	DeviceType   flexString `json:"deviceType"`
	DeviceModel  string     `json:"devicemodel"`
	Status       flexString `json:"status"`
}
