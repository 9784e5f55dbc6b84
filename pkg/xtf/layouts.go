package xtf

import (
	"encoding/binary"

	"github.com/oceanscan/xtfkit/pkg/sacker"
)

// Structural constants of the XTF layout. The file header record and
// the channel descriptors together occupy a reserved region of
// HeaderLen bytes regardless of how many descriptors are present; the
// packet stream starts at HeaderLen.
const (
	HeaderLen   = 1024 // total structural header region
	ChanInfoLen = 128  // one channel descriptor
	MaxChannels = 6    // hard limit of the concrete sub-headers

	packetHeaderLen = 14  // PacketHeaderSpec.Size()
	sonarHeadersLen = 256 // packet header + ping header
	chanHeaderLen   = 64  // one ping channel header
)

// Packet type tags from the packet header's header_type field.
const (
	TypeSonar       = 0 // sidescan and subbottom
	TypeNotes       = 1 // text annotation
	TypeBathy       = 2 // bathymetry (Seabat, Odom)
	TypeAttitude    = 3 // TSS or MRU attitude (pitch, roll, heave, yaw)
	TypeForward     = 4 // forward-look sonar (polar display)
	TypeElac        = 5 // Elac multibeam
	TypeRawSerial   = 6 // raw data from serial port
	TypeEmbedHead   = 7 // embedded header structure
	TypeHiddenSonar = 8 // hidden (non-displayable) ping
)

// ChanTypes maps a channel descriptor's type_of_channel tag to its
// semantic name.
var ChanTypes = map[int]string{
	0: "subbottom",
	1: "port",
	2: "stbd",
	3: "bathymetry",
}

// FileHeaderSpec describes the global file header at offset 0. The
// file_format magic byte is the "is this XTF at all" gate.
var FileHeaderSpec = sacker.MustCompile(binary.LittleEndian, `
	B file_format == 0x7b !
	B system_type
	8s recording_program_name
	8s recording_program_version
	16s sonar_name
	H sonar_type
	64s note_string
	64s this_file_name
	H nav_units
	H number_of_sonar_channels
	H number_of_bathymetry_channels
	B number_of_snippet_channels
	B number_of_forward_look_arrays
	H number_of_echo_strength_channels
	B number_of_interferometry_channels
	B reserved1
	H reserved2
	f reference_point_height
	12s projection_type
	10s spheroid_type
	l navigation_latency
	f origin_x
	f origin_y
	f nav_offset_y
	f nav_offset_x
	f nav_offset_z
	f nav_offset_yaw
	f MRU_offset_y
	f MRU_offset_x
	f MRU_offset_z
	f MRU_offset_yaw
	f MRU_offset_pitch
	f MRU_offset_roll
`)

// ChanInfoSpec describes one channel descriptor, ChanInfoLen bytes.
var ChanInfoSpec = sacker.MustCompile(binary.LittleEndian, `
	B type_of_channel
	B sub_channel_number
	H correction_flags
	H uni_polar
	H bytes_per_sample
	I reserved1
	16s channel_name
	f volt_scale
	f frequency
	f horiz_beam_angle
	f tilt_angle
	f beam_width
	f offset_x
	f offset_y
	f offset_z
	f offset_yaw
	f offset_pitch
	f offset_roll
	H beams_per_array
	54s reserved2
`)

// PacketHeaderSpec starts every packet. num_bytes_this_record is the
// authoritative total packet length used to resynchronize the stream.
var PacketHeaderSpec = sacker.MustCompile(binary.LittleEndian, `
	H magic_number == 0xFACE !
	B header_type
	B sub_channel_number
	H num_chans_to_follow
	4s reserved1
	I num_bytes_this_record
`)

// SonarHeaderSpec is the ping navigation sub-header that follows the
// packet header of a sonar packet.
var SonarHeaderSpec = sacker.MustCompile(binary.LittleEndian, `
	H year
	B month
	B day
	B hour
	B minute
	B second
	B hseconds
	H julian_day
	I event_number
	I ping_number
	f sound_velocity
	f ocean_tide
	I reserved2
	f conductiviy_freq
	f temperature_freq
	f pressure_freq
	f pressure_temp
	f conductivity
	f water_temperature
	f pressure
	f computed_sound_velocity
	f mag_x
	f mag_y
	f mag_z
	f aux_val1
	f aux_val2
	f aux_val3
	f aux_val4
	f aux_val5
	f aux_val6
	f speed_log
	f turbidity
	f ship_speed
	f ship_gyro
	d ship_ycoordinate
	d ship_xcoordinate
	H ship_alititude
	H ship_depth
	B fix_time_hour
	B fix_time_minute
	B fix_time_second
	B fix_time_hsecond
	f sensor_speed
	f KP
	d sensor_ycoordinate
	d sensor_xcoordinate
	H sonar_status
	H range_to_fish
	H bearing_to_fish
	H cable_out
	f layback
	f cable_tension
	f sensor_depth
	f sensor_primary_altitude
	f sensor_aux_altitude
	f sensor_pitch
	f sensor_roll
	f sensor_heading
	f heave
	f yaw
	I attitude_time_lag
	f DOT
	I nav_fix_milliseconds
	B computer_clock_hour
	B computer_clock_minute
	B computer_clock_second
	B computer_clock_hsec
	h fish_position_delta_x
	h fish_position_delta_y
	B fish_position_error_code
	11s reserved3
`)

// ChanHeaderSpec is the per-channel sub-header of a sonar packet,
// chanHeaderLen bytes. num_samples and channel_number locate the raw
// sample buffer.
var ChanHeaderSpec = sacker.MustCompile(binary.LittleEndian, `
	H channel_number
	H downsample_method
	f slant_range
	f ground_range
	f time_delay
	f time_duration
	f seconds_per_ping
	H processing_flags
	H frequency
	H initial_gain_code
	H gain_code
	H band_width
	I contact_number
	H contact_classification
	B conact_sub_number
	b contact_type
	I num_samples
	H millivolt_scale
	f contact_time_of_track
	B contact_close_number
	B reserved2
	f fixed_VSOP
	h weight
	4s reserved
`)
