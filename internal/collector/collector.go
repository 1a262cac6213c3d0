package collector

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"stcgauge/internal/stc3100"
)

// Source is what the collector needs from a gauge. stc3100.Guard satisfies it.
type Source interface {
	ReadAll() (stc3100.Reading, error)
	Identity() (stc3100.Identity, error)
}

// Collector implements prometheus.Collector for one STC3100. Every scrape
// performs one block read; nothing is cached between scrapes.
type Collector struct {
	name string
	src  Source

	chargeMAh     *prometheus.Desc
	chargePercent *prometheus.Desc
	voltage       *prometheus.Desc
	current       *prometheus.Desc
	temperature   *prometheus.Desc
	info          *prometheus.Desc
	scrapeSuccess *prometheus.Desc
}

// New creates a collector labelled with the given device name.
func New(name string, src Source) *Collector {
	return &Collector{
		name: name,
		src:  src,
		chargeMAh: prometheus.NewDesc(
			"stc3100_charge_mah",
			"Accumulated charge since the last reset in milliamp-hours",
			[]string{"device"},
			nil,
		),
		chargePercent: prometheus.NewDesc(
			"stc3100_charge_percent",
			"Charge accumulator as a percentage of its full scale",
			[]string{"device"},
			nil,
		),
		voltage: prometheus.NewDesc(
			"stc3100_voltage_volts",
			"Battery voltage in volts",
			[]string{"device"},
			nil,
		),
		current: prometheus.NewDesc(
			"stc3100_current_milliamps",
			"Battery current in milliamps (negative=discharging)",
			[]string{"device"},
			nil,
		),
		temperature: prometheus.NewDesc(
			"stc3100_temperature_celsius",
			"Die temperature in degrees Celsius",
			[]string{"device"},
			nil,
		),
		info: prometheus.NewDesc(
			"stc3100_info",
			"STC3100 identification registers",
			[]string{"device", "part_id", "unique_id", "crc"},
			nil,
		),
		scrapeSuccess: prometheus.NewDesc(
			"stc3100_scrape_success",
			"Whether reading the gauge registers was successful",
			[]string{"device"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chargeMAh
	ch <- c.chargePercent
	ch <- c.voltage
	ch <- c.current
	ch <- c.temperature
	ch <- c.info
	ch <- c.scrapeSuccess
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	r, err := c.src.ReadAll()
	if err != nil {
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 0, c.name)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 1, c.name)
	ch <- prometheus.MustNewConstMetric(c.chargeMAh, prometheus.GaugeValue, r.ChargeMilliampHours, c.name)
	ch <- prometheus.MustNewConstMetric(c.chargePercent, prometheus.GaugeValue, r.ChargePercent, c.name)
	ch <- prometheus.MustNewConstMetric(c.voltage, prometheus.GaugeValue, r.Voltage, c.name)
	ch <- prometheus.MustNewConstMetric(c.current, prometheus.GaugeValue, r.Current, c.name)
	ch <- prometheus.MustNewConstMetric(c.temperature, prometheus.GaugeValue, r.Temperature, c.name)

	// Identity is static; a failure here does not fail the scrape.
	id, err := c.src.Identity()
	if err != nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1,
		c.name,
		fmt.Sprintf("0x%02X", id.PartID),
		fmt.Sprintf("%X", id.UniqueID[:]),
		fmt.Sprintf("0x%02X", id.CRC),
	)
}
