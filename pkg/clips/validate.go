package clips

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/lwostrut/pkg/lwo"
)

// Validate resolves the object's clips and binds every texture layer to
// its clip.
func (r *Resolver) Validate(obj *lwo.Object) (*Result, error) {
	res, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	Bind(obj, r.log())
	return res, nil
}

// Bind points each texture layer at its clip. A texture naming an unknown
// clip gets a placeholder clip marked missing.
func Bind(obj *lwo.Object, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, name := range slices.Sorted(maps.Keys(obj.Surfaces)) {
		surf := obj.Surfaces[name]
		for _, channel := range slices.Sorted(maps.Keys(surf.Textures)) {
			for _, t := range surf.Textures[channel] {
				clip, ok := obj.Clips[t.ClipID]
				if !ok {
					log.Warn("texture references unknown clip",
						zap.String("surface", name),
						zap.String("channel", channel),
						zap.Uint32("clip", t.ClipID))
					clip = &lwo.Clip{ID: t.ClipID, Missing: true}
					obj.Clips[t.ClipID] = clip
				}
				t.Clip = clip
			}
		}
	}
}
