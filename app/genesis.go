package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Genesis is the part of the tendermint genesis file read by the app.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState escrowd.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// SetAppState replaces the app_state of the genesis file. All other fields
// of the file are kept as they are.
func SetAppState(filePath string, appState json.RawMessage) error {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	if !json.Valid(appState) {
		return errors.Wrap(errors.ErrInput, "app state is not valid json")
	}
	if existing, ok := doc["app_state"]; ok && len(existing) > 0 && string(existing) != "null" {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set")
	}
	doc["app_state"] = appState

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filePath, out, 0600)
}
