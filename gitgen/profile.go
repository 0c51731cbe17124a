package gitgen

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Profile carries per-project generation defaults, loadable from a TOML
// file:
//
//	message = "bad apple"
//	intensity = 5
//
//	[author]
//	name = "Octo Cat"
//	email = "octocat@example.com"
//
//	[push]
//	remote = "origin"
//	branch = "main"
type Profile struct {
	Message   string `toml:"message"`
	Intensity int    `toml:"intensity"`
	Author    struct {
		Name  string `toml:"name"`
		Email string `toml:"email"`
	} `toml:"author"`
	Push struct {
		Remote string `toml:"remote"`
		Branch string `toml:"branch"`
	} `toml:"push"`
}

// Defaults returns the built-in profile used when no file is supplied.
func Defaults() Profile {
	var p Profile
	p.Message = DefaultMessagePrefix
	p.Intensity = DefaultIntensity
	p.Push.Remote = DefaultRemote
	p.Push.Branch = DefaultBranch
	return p
}

// LoadProfile decodes path over the defaults, so keys absent from the
// file keep their built-in values.
func LoadProfile(path string) (Profile, error) {
	p := Defaults()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
