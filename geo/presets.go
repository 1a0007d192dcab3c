package geo

import (
	"strings"

	"golang.org/x/text/cases"
)

// Preset is a named location users can pick instead of sharing coordinates.
type Preset struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Lat   float64  `json:"lat"`
	Lng   float64  `json:"lng"`
	Tags  []string `json:"tags,omitempty"`
}

var presets = []Preset{
	{Key: "shibuya", Label: "渋谷", Lat: 35.6595, Lng: 139.7005, Tags: []string{"にぎやか", "20代", "カジュアル"}},
	{Key: "ebisu", Label: "恵比寿", Lat: 35.6467, Lng: 139.7101, Tags: []string{"ワイン", "大人", "落ち着き"}},
	{Key: "shinjuku", Label: "新宿", Lat: 35.6906, Lng: 139.7006, Tags: []string{"多国籍", "にぎやか"}},
	{Key: "roppongi", Label: "六本木", Lat: 35.6629, Lng: 139.731, Tags: []string{"ハイエンド", "外国人歓迎"}},
	{Key: "ginza", Label: "銀座", Lat: 35.6721, Lng: 139.7706, Tags: []string{"大人", "ラグジュアリー"}},
	{Key: "nakameguro", Label: "中目黒", Lat: 35.6437, Lng: 139.6993, Tags: []string{"カフェ", "ゆったり"}},
	{Key: "kichijoji", Label: "吉祥寺", Lat: 35.7033, Lng: 139.5795, Tags: []string{"公園", "ナチュラル"}},
	{Key: "yokohama", Label: "横浜", Lat: 35.4437, Lng: 139.638, Tags: []string{"港町", "デート"}},
	{Key: "ikebukuro", Label: "池袋", Lat: 35.7289, Lng: 139.71, Tags: []string{"学生", "にぎやか"}},
	{Key: "umeda", Label: "大阪・梅田", Lat: 34.7055, Lng: 135.4983, Tags: []string{"関西", "ビジネス"}},
	{Key: "kyoto", Label: "京都・河原町", Lat: 35.0037, Lng: 135.7681, Tags: []string{"旅行", "落ち着き"}},
	{Key: "fukuoka", Label: "福岡・天神", Lat: 33.5902, Lng: 130.4017, Tags: []string{"屋台", "にぎやか"}},
	{Key: "sapporo", Label: "札幌・すすきの", Lat: 43.0555, Lng: 141.3564, Tags: []string{"北海道", "ゆったり"}},
}

// Presets returns a copy of the built-in location presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}

// PresetByKey returns the preset with exactly the given key.
func PresetByKey(key string) (Preset, bool) {
	for _, p := range presets {
		if p.Key == key {
			p.Tags = append([]string(nil), p.Tags...)
			return p, true
		}
	}
	return Preset{}, false
}

// FindPreset returns the first preset whose key or label contains term,
// compared case-insensitively. An empty term matches nothing.
func FindPreset(term string) (Preset, bool) {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(term))
	if needle == "" {
		return Preset{}, false
	}
	for _, p := range presets {
		if strings.Contains(folder.String(p.Key), needle) || strings.Contains(folder.String(p.Label), needle) {
			p.Tags = append([]string(nil), p.Tags...)
			return p, true
		}
	}
	return Preset{}, false
}
