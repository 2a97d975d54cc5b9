// Package backup contains the backup run itself: precondition checks,
// planning, delegating the block-level clone to rpi-clone, verifying the
// clone by mounting it, and pointing the clone's cmdline.txt at its own
// root partition. It is used by the CLI layer but can also be embedded in
// other tooling that needs to back up a Raspberry Pi's SD card.
package backup
