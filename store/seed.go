package store

import (
	"meetnow/geo"
	"meetnow/models"
)

type demoSeed struct {
	id        string
	nickname  string
	tags      []string
	bio       string
	vibe      string
	budget    string
	presetKey string
}

var demoSeeds = []demoSeed{
	{
		id:        "demo-aya",
		nickname:  "Aya",
		tags:      []string{"静かに飲みたい", "新しい出会い歓迎"},
		bio:       "恵比寿のワインバーを開拓中。おすすめを交換しましょう。",
		vibe:      "ゆったり",
		budget:    "5000〜7000円",
		presetKey: "ebisu",
	},
	{
		id:        "demo-ryo",
		nickname:  "Ryo",
		tags:      []string{"サクッと一杯", "はしご酒"},
		bio:       "渋谷でライブ帰り。もう一杯どうですか。",
		vibe:      "にぎやか",
		budget:    "3000円未満",
		presetKey: "shibuya",
	},
	{
		id:        "demo-sara",
		nickname:  "Sara",
		tags:      []string{"英語でOK", "旅の話がしたい"},
		bio:       "六本木ヒルズ周辺にいます。海外のおしゃべりができる人歓迎。",
		vibe:      "静かなバー",
		budget:    "5000〜7000円",
		presetKey: "roppongi",
	},
	{
		id:        "demo-daichi",
		nickname:  "Daichi",
		tags:      []string{"仕事の話歓迎", "静かに飲みたい"},
		bio:       "銀座で打ち合わせ終わり。軽く振り返りませんか。",
		vibe:      "ゆったり",
		budget:    "7000円以上",
		presetKey: "ginza",
	},
	{
		id:        "demo-hina",
		nickname:  "Hina",
		tags:      []string{"旅の話がしたい", "じっくり会話"},
		bio:       "京都を旅行中。地元の穴場を教えてください。",
		vibe:      "カジュアル",
		budget:    "3000〜5000円",
		presetKey: "kyoto",
	},
}

// SeedDemoUsers adds the demo users with a presence at their preset. It emits
// no events and returns how many users were seeded.
func (s *Store) SeedDemoUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	expires := s.boundary.Next(now)
	seeded := 0
	for _, seed := range demoSeeds {
		preset, ok := geo.PresetByKey(seed.presetKey)
		if !ok {
			continue
		}

		if _, exists := s.users[seed.id]; !exists {
			s.track(seed.id)
		}
		s.users[seed.id] = &models.UserProfile{
			ID:           seed.id,
			Nickname:     seed.nickname,
			AgeVerified:  true,
			Tags:         append([]string{}, seed.tags...),
			Bio:          seed.bio,
			Vibe:         seed.vibe,
			Budget:       seed.budget,
			CreatedAt:    now,
			LastActiveAt: now,
		}

		gridLat, gridLng := geo.ToGrid(preset.Lat, preset.Lng, s.gridMeters)
		s.presences[seed.id] = &models.Presence{
			UserID:        seed.id,
			Lat:           preset.Lat,
			Lng:           preset.Lng,
			GridLat:       gridLat,
			GridLng:       gridLng,
			LocationLabel: preset.Label,
			Since:         now,
			ExpiresAt:     expires,
		}
		seeded++
	}

	s.log.Info().Int("users", seeded).Msg("demo users seeded")
	return seeded
}
