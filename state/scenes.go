/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */

package state

import "github.com/suplalite/suplalite/wire"

// SceneStep is one (channel, action) entry of a scene's ordered script.
// ChannelName is resolved via GetChannelByName at execution time rather
// than stored as a channel id, since a scene step names a channel by its
// world-unique name, matching how scenes are authored in configuration.
type SceneStep struct {
	ChannelName string
	Action      wire.ActionType
	Param       []byte
}

type Scene struct {
	ID       uint32
	Name     string
	Caption  string
	Steps    []SceneStep
	AltIcon  uint8
	UserIcon uint32
}

func (s *State) AddScene(name, caption string, steps []SceneStep, altIcon uint8, icons [][]byte) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userIcon uint32
	if len(icons) > 0 {
		userIcon = s.icons.put(icons)
	}

	s.nextSceneID++
	id := s.nextSceneID
	s.scenes[id] = &Scene{
		ID:       id,
		Name:     name,
		Caption:  caption,
		Steps:    steps,
		AltIcon:  altIcon,
		UserIcon: userIcon,
	}
	return id
}

func (s *State) GetScene(id uint32) (Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scenes[id]
	if !ok {
		return Scene{}, errUnknownScene(id)
	}
	return *sc, nil
}

func (s *State) AllSceneIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint32, 0, len(s.scenes))
	for i := uint32(1); i <= s.nextSceneID; i++ {
		if _, ok := s.scenes[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}