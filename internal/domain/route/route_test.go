package route_test

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/fortsentinel/dispatch/internal/domain/model"
	"github.com/fortsentinel/dispatch/internal/domain/route"
)

func TestNewRoster(t *testing.T) {
	convey.Convey("Given persona tables", t, func() {
		base := route.DefaultRoster().Personas()

		convey.Convey("When the table holds exactly four distinct voices with one default", func() {
			roster, err := route.NewRoster(base)

			convey.Convey("Then it should validate", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(roster.DefaultVoice(), convey.ShouldEqual, route.VoiceTruthKeeper)
				convey.So(roster.Personas(), convey.ShouldHaveLength, 4)
			})
		})

		convey.Convey("When the table has the wrong size", func() {
			_, err := route.NewRoster(base[:3])
			convey.So(err, convey.ShouldWrap, route.ErrInvalidRoster)
		})

		convey.Convey("When a voice is duplicated", func() {
			personas := append([]route.Persona{}, base...)
			personas[3].Voice = personas[0].Voice
			_, err := route.NewRoster(personas)
			convey.So(err, convey.ShouldWrap, route.ErrInvalidRoster)
		})

		convey.Convey("When a voice is outside the closed set", func() {
			personas := append([]route.Persona{}, base...)
			personas[0].Voice = route.Voice("MidnightOracle")
			_, err := route.NewRoster(personas)
			convey.So(err, convey.ShouldWrap, route.ErrInvalidRoster)
		})

		convey.Convey("When no persona is marked default", func() {
			personas := append([]route.Persona{}, base...)
			for i := range personas {
				personas[i].Default = false
			}
			_, err := route.NewRoster(personas)
			convey.So(err, convey.ShouldWrap, route.ErrInvalidRoster)
		})

		convey.Convey("When two personas are marked default", func() {
			personas := append([]route.Persona{}, base...)
			personas[0].Default = true
			_, err := route.NewRoster(personas)
			convey.So(err, convey.ShouldWrap, route.ErrInvalidRoster)
		})
	})
}

func TestRoute(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a router over the built-in roster", t, func() {
		r := route.NewRouter(route.DefaultRoster())

		convey.Convey("When the dominant tag has a strong persona affinity", func() {
			voice := r.Route(ctx, []model.TagScore{
				{TagName: "eliteFallout", Score: 3.0},
				{TagName: "TruthEmerging", Score: 1.0},
			})

			convey.Convey("Then the affine persona wins", func() {
				// RedWitness: 3.0*0.9 = 2.7 beats TruthKeeper's 1.0*0.8.
				convey.So(voice, convey.ShouldEqual, route.VoiceRedWitness)
			})
		})

		convey.Convey("When no persona clears the threshold", func() {
			voice := r.Route(ctx, []model.TagScore{
				{TagName: model.UncategorizedTag, Score: 0},
			})

			convey.Convey("Then routing falls through to the default persona", func() {
				convey.So(voice, convey.ShouldEqual, route.VoiceTruthKeeper)
			})
		})

		convey.Convey("When the score list is empty", func() {
			voice := r.Route(ctx, nil)
			convey.So(voice, convey.ShouldEqual, route.VoiceTruthKeeper)
		})

		convey.Convey("When any tag combination is routed", func() {
			inputs := [][]model.TagScore{
				{{TagName: "SurvivorWitness", Score: 2.0}},
				{{TagName: "SystemicCollapse", Score: 4.0}, {TagName: "InstitutionalDecay", Score: 4.0}},
				{{TagName: "unknown-tag", Score: 9.0}},
				{{TagName: "MarketVolatility", Score: 1.0}},
			}

			convey.Convey("Then the result is always a member of the closed voice set", func() {
				for _, scores := range inputs {
					convey.So(r.Route(ctx, scores).Valid(), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When tags beyond the top-K carry all the affinity", func() {
			voice := r.Route(ctx, []model.TagScore{
				{TagName: "no-affinity-1", Score: 9.0},
				{TagName: "no-affinity-2", Score: 8.0},
				{TagName: "no-affinity-3", Score: 7.0},
				{TagName: "SurvivorWitness", Score: 6.0},
			})

			convey.Convey("Then they are ignored and the default persona wins", func() {
				convey.So(voice, convey.ShouldEqual, route.VoiceTruthKeeper)
			})
		})
	})

	convey.Convey("Given a router with a widened top-K", t, func() {
		r := route.NewRouter(route.DefaultRoster(), route.WithTopK(4))

		convey.Convey("When the fourth tag carries the affinity", func() {
			voice := r.Route(ctx, []model.TagScore{
				{TagName: "no-affinity-1", Score: 9.0},
				{TagName: "no-affinity-2", Score: 8.0},
				{TagName: "no-affinity-3", Score: 7.0},
				{TagName: "SurvivorWitness", Score: 6.0},
			})

			convey.So(voice, convey.ShouldEqual, route.VoiceSurvivorVoice)
		})
	})

	convey.Convey("Given a router with a raised threshold", t, func() {
		r := route.NewRouter(route.DefaultRoster(), route.WithThreshold(10.0))

		convey.Convey("When a persona matches but stays under the threshold", func() {
			voice := r.Route(ctx, []model.TagScore{
				{TagName: "SurvivorWitness", Score: 2.0},
			})

			convey.So(voice, convey.ShouldEqual, route.VoiceTruthKeeper)
		})
	})
}

func TestVoice(t *testing.T) {
	convey.Convey("Given the closed voice set", t, func() {
		convey.Convey("When listing voices", func() {
			voices := route.Voices()

			convey.Convey("Then all four personas appear in priority order", func() {
				convey.So(voices, convey.ShouldResemble, []route.Voice{
					route.VoiceRedWitness,
					route.VoiceStillnessScribe,
					route.VoiceTruthKeeper,
					route.VoiceSurvivorVoice,
				})
			})

			convey.Convey("And each carries a tone label and narration preset", func() {
				for _, v := range voices {
					convey.So(v.Valid(), convey.ShouldBeTrue)
					convey.So(v.ToneLabel(), convey.ShouldNotBeEmpty)
					convey.So(route.NarrationFor(v).Style, convey.ShouldNotBeEmpty)
				}
			})
		})

		convey.Convey("When parsing a stored voice string", func() {
			v, err := route.ParseVoice("RedWitness")
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, route.VoiceRedWitness)
		})

		convey.Convey("When parsing an unknown voice string", func() {
			_, err := route.ParseVoice("Narrator9000")
			convey.So(err, convey.ShouldWrap, route.ErrUnknownVoice)
		})

		convey.Convey("When describing tag scores", func() {
			out := route.DescribeTags([]model.TagScore{
				{TagName: "DOJwatch"}, {TagName: "eliteFallout"},
			})
			convey.So(out, convey.ShouldEqual, "DOJwatch,eliteFallout")
		})
	})
}
