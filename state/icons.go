/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package state

import (
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/buntdb"

	"github.com/suplalite/suplalite/cmn/debug"
	"github.com/suplalite/suplalite/wire"
)

// iconStore is the content-addressed icon table: identical image bytes
// always collapse to the same id. Backed by an in-memory buntdb, matching
// the append-only access pattern described for icons (never deleted,
// written once at configuration time, read continuously by the HTTP
// icon API) without hand-rolling a second map-plus-mutex.
type iconStore struct {
	db *buntdb.DB
}

func newIconStore() *iconStore {
	db, err := buntdb.Open(":memory:")
	debug.AssertNoErr(err)
	return &iconStore{db: db}
}

// put interns one icon's image variants and returns its stable id. A
// second put with byte-identical images returns the same id without
// writing again.
func (s *iconStore) put(images [][]byte) uint32 {
	id := wire.IconID(images...)
	key := iconKey(id)

	var exists bool
	s.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(key)
		exists = err == nil
		return nil
	})
	if exists {
		return id
	}

	encoded, err := jsoniter.Marshal(images)
	debug.AssertNoErr(err)
	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(encoded), nil)
		return err
	})
	debug.AssertNoErr(err)
	return id
}

// get returns the stored image variants for id, or ok=false if no icon
// with that id was ever interned.
func (s *iconStore) get(id uint32) (images [][]byte, ok bool) {
	key := iconKey(id)
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		return jsoniter.Unmarshal([]byte(v), &images)
	})
	return images, err == nil
}

// allIDs returns every interned icon id, ascending.
func (s *iconStore) allIDs() []uint32 {
	var ids []uint32
	s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(iconKeyPrefix+"*", func(key, _ string) bool {
			var id uint32
			fmt.Sscanf(key, iconKeyPrefix+"%d", &id)
			ids = append(ids, id)
			return true
		})
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

const iconKeyPrefix = "icon:"

func iconKey(id uint32) string { return fmt.Sprintf(iconKeyPrefix+"%d", id) }

// GetIcon returns the stored image variants for a content-addressed icon
// id, for the HTTP icon API.
func (s *State) GetIcon(id uint32) ([][]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.icons.get(id)
}

// AllIconIDs returns every configured icon id.
func (s *State) AllIconIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.icons.allIDs()
}