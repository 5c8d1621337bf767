package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const (
	sampleRate = 44100
	maxSounds  = 16
)

var (
	soundMu      sync.Mutex
	audioContext *audio.Context
	musicPlayer  *audio.Player
	soundPlayers = make(map[*audio.Player]struct{})
	pcmCache     = make(map[string][]byte)
)

func initSoundContext() {
	audioContext = audio.NewContext(sampleRate)
}

func applyVolumes() {
	soundMu.Lock()
	defer soundMu.Unlock()
	if musicPlayer != nil {
		musicPlayer.SetVolume(gs.MusicVolume)
	}
	for p := range soundPlayers {
		p.SetVolume(gs.SoundVolume)
	}
}

// loadPCM reads and decodes a wav file under data/, cached by its
// relative path.
func loadPCM(rel string) ([]byte, error) {
	soundMu.Lock()
	if pcm, ok := pcmCache[rel]; ok {
		soundMu.Unlock()
		if pcm == nil {
			return nil, fmt.Errorf("missing sound %s", rel)
		}
		return pcm, nil
	}
	soundMu.Unlock()

	raw, err := os.ReadFile(filepath.Join(dataDir, rel))
	if err != nil {
		soundMu.Lock()
		pcmCache[rel] = nil
		soundMu.Unlock()
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	pcm := make([]byte, stream.Length())
	if _, err := io.ReadFull(stream, pcm); err != nil {
		logDebug("decode %s: %v", rel, err)
	}

	soundMu.Lock()
	pcmCache[rel] = pcm
	soundMu.Unlock()
	return pcm, nil
}

// gameAudio is the interpreter's audio collaborator.
type gameAudio struct{}

func (gameAudio) PlayMusic(name string) error {
	pcm, err := loadPCM(filepath.Join("music", name+".wav"))
	if err != nil {
		return err
	}

	soundMu.Lock()
	defer soundMu.Unlock()
	if musicPlayer != nil {
		musicPlayer.Close()
		musicPlayer = nil
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	p, err := audioContext.NewPlayer(loop)
	if err != nil {
		return err
	}
	p.SetVolume(gs.MusicVolume)
	p.Play()
	musicPlayer = p
	return nil
}

func (gameAudio) StopMusic() {
	soundMu.Lock()
	defer soundMu.Unlock()
	if musicPlayer != nil {
		musicPlayer.Close()
		musicPlayer = nil
	}
}

func (gameAudio) PlaySound(name string) error {
	pcm, err := loadPCM(filepath.Join("sound", name+".wav"))
	if err != nil {
		return err
	}

	p := audioContext.NewPlayerFromBytes(pcm)
	p.SetVolume(gs.SoundVolume)

	soundMu.Lock()
	for sp := range soundPlayers {
		if !sp.IsPlaying() {
			sp.Close()
			delete(soundPlayers, sp)
		}
	}
	if len(soundPlayers) >= maxSounds {
		soundMu.Unlock()
		p.Close()
		return nil
	}
	soundPlayers[p] = struct{}{}
	soundMu.Unlock()

	p.Play()
	return nil
}

func (gameAudio) StopSound() {
	soundMu.Lock()
	defer soundMu.Unlock()
	for p := range soundPlayers {
		p.Close()
		delete(soundPlayers, p)
	}
}

// playUISound fires a one-shot interface sound, quietly doing nothing
// when the file is absent.
func playUISound(name string) {
	if err := (gameAudio{}).PlaySound(name); err != nil {
		logDebug("ui sound %s: %v", name, err)
	}
}
