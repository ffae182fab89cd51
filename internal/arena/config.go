package arena

import (
	"fmt"

	"github.com/spf13/viper"
)

// weaponFileEntry mirrors one weapon block in a tuning config file. Zero
// fields keep the compiled default.
type weaponFileEntry struct {
	Damage          float64 `mapstructure:"damage"`
	FireRate        float64 `mapstructure:"fire_rate"`
	MaxAmmo         int     `mapstructure:"max_ammo"`
	ReserveAmmo     int     `mapstructure:"reserve_ammo"`
	ReloadTime      float64 `mapstructure:"reload_time"`
	Range           float64 `mapstructure:"range"`
	Spread          float64 `mapstructure:"spread"`
	ProjectileSpeed float64 `mapstructure:"projectile_speed"`
	BlastRadius     float64 `mapstructure:"blast_radius"`
	FuseTime        float64 `mapstructure:"fuse_time"`
	ThrowSpeed      float64 `mapstructure:"throw_speed"`
}

var weaponKeyToKind = map[string]WeaponKind{
	"rifle":       WeaponRifle,
	"pistol":      WeaponPistol,
	"knife":       WeaponKnife,
	"grenade":     WeaponGrenade,
	"enemy_rifle": WeaponEnemyRifle,
}

// LoadWeaponConfigs reads a YAML tuning file and overlays it onto the
// built-in weapon table. Unknown weapon keys are rejected; omitted fields
// keep their defaults.
func LoadWeaponConfigs(path string) (map[WeaponKind]WeaponConfig, error) {
	configs := DefaultWeaponConfigs()
	if path == "" {
		return configs, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read weapon config: %w", err)
	}

	var file map[string]weaponFileEntry
	if err := v.UnmarshalKey("weapons", &file); err != nil {
		return nil, fmt.Errorf("parse weapon config: %w", err)
	}

	for key, entry := range file {
		kind, ok := weaponKeyToKind[key]
		if !ok {
			return nil, fmt.Errorf("weapon config: unknown weapon %q", key)
		}
		cfg := configs[kind]
		overlayWeapon(&cfg, entry)
		configs[kind] = cfg
	}
	return configs, nil
}

func overlayWeapon(cfg *WeaponConfig, e weaponFileEntry) {
	if e.Damage > 0 {
		cfg.Damage = e.Damage
	}
	if e.FireRate > 0 {
		cfg.FireRate = e.FireRate
	}
	if e.MaxAmmo > 0 {
		cfg.MaxAmmo = e.MaxAmmo
	}
	if e.ReserveAmmo > 0 {
		cfg.ReserveAmmo = e.ReserveAmmo
	}
	if e.ReloadTime > 0 {
		cfg.ReloadTime = e.ReloadTime
	}
	if e.Range > 0 {
		cfg.Range = e.Range
	}
	if e.Spread > 0 {
		cfg.Spread = e.Spread
	}
	if e.ProjectileSpeed > 0 {
		cfg.ProjectileSpeed = e.ProjectileSpeed
	}
	if e.BlastRadius > 0 {
		cfg.BlastRadius = e.BlastRadius
	}
	if e.FuseTime > 0 {
		cfg.FuseTime = e.FuseTime
	}
	if e.ThrowSpeed > 0 {
		cfg.ThrowSpeed = e.ThrowSpeed
	}
}
