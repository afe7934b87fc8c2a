// Package wallpaper applies images to the desktop. The only concrete
// implementation targets COSMIC, which reads its background settings from
// a RON document and needs its cosmic-bg process restarted to notice a
// change.
package wallpaper
