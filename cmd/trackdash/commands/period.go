package commands

import (
	"github.com/spf13/cobra"

	"github.com/strrl/trackdash/internal/dashboard"
)

// periodFlags selects the period of a one-shot command
type periodFlags struct {
	period string
	start  string
	end    string
}

func (f *periodFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.period, "period", "p", string(dashboard.PeriodToday), "Period: today, week, month or custom")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date of a custom period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date of a custom period (YYYY-MM-DD)")
}

// selection validates the flags the same way the dashboard validates its form
func (f *periodFlags) selection() (dashboard.Selection, error) {
	p, err := dashboard.ParsePeriod(f.period)
	if err != nil {
		return dashboard.Selection{}, err
	}

	st := dashboard.NewState(true)
	if p == dashboard.PeriodCustom {
		err = st.ApplyCustom(f.start, f.end)
	} else {
		err = st.SetPeriod(p)
	}
	if err != nil {
		return dashboard.Selection{}, err
	}
	return st.Selection(), nil
}
